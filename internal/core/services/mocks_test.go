package services

import (
	"context"
	"sync"
	"time"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
	"github.com/quickbasket/smartsync-agent/internal/core/ports/driven"
)

// mockConnector implements driven.Connector with programmable behaviour.
type mockConnector struct {
	mu sync.Mutex

	kind         domain.ConnectorKind
	products     []domain.ProductRecord
	fetchErr     error
	fetchCalls   int
	testOK       bool
	applyOK      bool
	applied      []string
	disconnected int
}

var _ driven.Connector = (*mockConnector)(nil)

func (m *mockConnector) Type() domain.ConnectorKind {
	if m.kind == "" {
		return domain.KindCSV
	}
	return m.kind
}

func (m *mockConnector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{}
}

func (m *mockConnector) Connect(_ context.Context) error { return nil }

func (m *mockConnector) TestConnection(_ context.Context) bool { return m.testOK }

func (m *mockConnector) FetchProducts(_ context.Context) ([]domain.ProductRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.products, nil
}

func (m *mockConnector) FetchStockChanges(_ context.Context, _ time.Time) ([]domain.StockChange, error) {
	return nil, nil
}

func (m *mockConnector) ApplyStockUpdate(_ context.Context, sku string, _ int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applied = append(m.applied, sku)
	return m.applyOK
}

func (m *mockConnector) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnected++
	return nil
}

// ack records one acknowledgement sent to the mock transport.
type ack struct {
	CommandID string
	Status    domain.CommandStatus
	Message   string
}

// mockTransport implements driven.ServerTransport with programmable
// behaviour and call recording.
type mockTransport struct {
	mu sync.Mutex

	uploadErr     error
	uploadErrOnce bool
	uploads       [][]domain.ProductRecord
	heartbeats    int
	heartbeatErr  error
	commands      []domain.RemoteCommand
	pullErr       error
	acks          []ack
	ackErr        error
}

var _ driven.ServerTransport = (*mockTransport)(nil)

func (m *mockTransport) Register(_ context.Context, _, _ string) (*domain.AgentIdentity, error) {
	return &domain.AgentIdentity{AgentID: "agent-1", AgentKey: "key-1"}, nil
}

func (m *mockTransport) Heartbeat(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.heartbeats++
	return m.heartbeatErr
}

func (m *mockTransport) UploadInventory(_ context.Context, products []domain.ProductRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		err := m.uploadErr
		if m.uploadErrOnce {
			m.uploadErr = nil
		}
		return err
	}
	m.uploads = append(m.uploads, products)
	return nil
}

func (m *mockTransport) PullCommands(_ context.Context) ([]domain.RemoteCommand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pullErr != nil {
		return nil, m.pullErr
	}
	return m.commands, nil
}

func (m *mockTransport) AckCommand(_ context.Context, commandID string, status domain.CommandStatus, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acks = append(m.acks, ack{CommandID: commandID, Status: status, Message: message})
	return m.ackErr
}

func (m *mockTransport) uploadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}

func (m *mockTransport) heartbeatCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.heartbeats
}
