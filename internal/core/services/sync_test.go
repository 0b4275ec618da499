package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

func testProducts() []domain.ProductRecord {
	return []domain.ProductRecord{
		{SKU: "ABC123", Name: "Atta 5kg", SellingPrice: 275, Quantity: 40},
		{SKU: "MILK-1L", Name: "Milk 1L", SellingPrice: 72, Quantity: 12},
	}
}

func fastEngine(connector *mockConnector, transport *mockTransport) *SyncEngine {
	e := NewSyncEngine(connector, transport)
	e.retry = fastPolicy()
	return e
}

// TestSyncEngine_RunSync tests a successful fetch-and-upload cycle
func TestSyncEngine_RunSync(t *testing.T) {
	connector := &mockConnector{products: testProducts()}
	transport := &mockTransport{}
	e := fastEngine(connector, transport)

	count, err := e.RunSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Equal(t, 1, transport.uploadCount())
	assert.Equal(t, "ABC123", transport.uploads[0][0].SKU)

	status := e.Status()
	assert.False(t, status.Running)
	assert.Equal(t, 2, status.LastProductCount)
	assert.False(t, status.LastUploadSkipped)
}

// TestSyncEngine_FetchFailureSkipsUpload tests the all-or-nothing contract
func TestSyncEngine_FetchFailureSkipsUpload(t *testing.T) {
	connector := &mockConnector{fetchErr: errors.New("source down")}
	transport := &mockTransport{}
	e := fastEngine(connector, transport)

	_, err := e.RunSync(context.Background())
	require.Error(t, err)
	assert.Zero(t, transport.uploadCount())
}

// TestSyncEngine_UnchangedSnapshotSkipsUpload tests digest-based change detection
func TestSyncEngine_UnchangedSnapshotSkipsUpload(t *testing.T) {
	connector := &mockConnector{products: testProducts()}
	transport := &mockTransport{}
	e := fastEngine(connector, transport)

	_, err := e.RunSync(context.Background())
	require.NoError(t, err)

	count, err := e.RunSync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 1, transport.uploadCount())
	assert.True(t, e.Status().LastUploadSkipped)

	// Changed stock must upload again.
	connector.products[0].Quantity = 39
	count, err = e.RunSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, transport.uploadCount())
}

// TestSyncEngine_FailedUploadKeepsDigest tests re-upload after failure
func TestSyncEngine_FailedUploadKeepsDigest(t *testing.T) {
	connector := &mockConnector{products: testProducts()}
	transport := &mockTransport{uploadErr: domain.ErrAuthInvalid}
	e := fastEngine(connector, transport)

	_, err := e.RunSync(context.Background())
	require.Error(t, err)

	// Same snapshot, but no confirmed upload yet: must not skip.
	transport.uploadErr = nil
	count, err := e.RunSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, transport.uploadCount())
}

// TestSyncEngine_RetriesTransientUploadFailure tests the bounded retry
func TestSyncEngine_RetriesTransientUploadFailure(t *testing.T) {
	connector := &mockConnector{products: testProducts()}
	transport := &mockTransport{uploadErr: errors.New("502"), uploadErrOnce: true}
	e := fastEngine(connector, transport)

	count, err := e.RunSync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, transport.uploadCount())
}

// TestSyncEngine_SingleFlight tests overlapping cycles are rejected
func TestSyncEngine_SingleFlight(t *testing.T) {
	connector := &blockingConnector{
		began:   make(chan struct{}),
		release: make(chan struct{}),
	}
	e := fastEngine(&mockConnector{}, &mockTransport{})
	e.connector = connector

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = e.RunSync(context.Background())
	}()

	// Wait for the first cycle to enter the connector.
	select {
	case <-connector.began:
	case <-time.After(5 * time.Second):
		t.Fatal("first cycle never started")
	}

	_, err := e.RunSync(context.Background())
	assert.ErrorIs(t, err, domain.ErrSyncInProgress)

	close(connector.release)
	wg.Wait()
}

// blockingConnector parks FetchProducts until released.
type blockingConnector struct {
	mockConnector
	began   chan struct{}
	release chan struct{}
}

func (b *blockingConnector) FetchProducts(_ context.Context) ([]domain.ProductRecord, error) {
	close(b.began)
	<-b.release
	return nil, nil
}
