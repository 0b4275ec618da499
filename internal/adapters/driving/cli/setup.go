package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quickbasket/smartsync-agent/internal/adapters/driven/transport/rest"
	"github.com/quickbasket/smartsync-agent/internal/core/domain"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive first-run setup",
	Long: `Registers this agent with the QuickBasket server and configures the
inventory source.

You will need the retailer token from the QuickBasket dashboard. The
wizard walks through connector selection, connector settings, and field
mapping, verifies the connection, and saves the configuration.

No configuration is written if registration fails.`,
	RunE: runSetup,
}

// registerFunc exchanges a retailer token for an agent identity.
// Replaceable in tests.
var registerFunc = func(ctx context.Context, serverURL, retailerToken, agentName string) (*domain.AgentIdentity, error) {
	return rest.NewClient(serverURL, "").Register(ctx, retailerToken, agentName)
}

// setupTimeout bounds each individual server or source call during setup.
// Interactive prompts between calls are unbounded, so the timeout is scoped
// per call rather than to the wizard as a whole.
var setupTimeout = 30 * time.Second

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("SmartSync Agent Setup")
	cmd.Println("=====================")
	cmd.Println()

	// Step 1: server registration.
	cmd.Println("Step 1: Register with QuickBasket")
	cmd.Println("---------------------------------")
	cmd.Print("Server URL: ")
	serverURL := readLine(reader)
	if serverURL == "" {
		return errors.New("server URL is required")
	}
	cmd.Print("Retailer token (from the dashboard): ")
	retailerToken := readSecret(cmd, reader)
	if retailerToken == "" {
		return errors.New("retailer token is required")
	}
	cmd.Print("Agent name [store-agent]: ")
	agentName := readLine(reader)
	if agentName == "" {
		agentName = "store-agent"
	}

	registerCtx, cancelRegister := context.WithTimeout(cmd.Context(), setupTimeout)
	identity, err := registerFunc(registerCtx, serverURL, retailerToken, agentName)
	cancelRegister()
	if err != nil {
		if errors.Is(err, domain.ErrAuthInvalid) {
			return errors.New("registration rejected: retailer token is invalid or expired")
		}
		return fmt.Errorf("registration failed: %w", err)
	}
	cmd.Printf("Registered as agent %s.\n\n", identity.AgentID)

	// Step 2: connector selection.
	cmd.Println("Step 2: Select Inventory Source")
	cmd.Println("-------------------------------")
	types := availableTypes()
	for i, t := range types {
		cmd.Printf("  %d. %s - %s\n", i+1, t.Name, t.Description)
	}
	cmd.Print("\nEnter choice [1]: ")
	choice := parseChoice(readLine(reader), len(types), 1)
	selected := types[choice-1]
	cmd.Printf("Selected: %s\n\n", selected.Name)

	// Step 3: connector settings.
	cmd.Printf("Step 3: Configure %s\n", selected.Name)
	cmd.Println("-------------------------------")
	answers, err := promptKeys(cmd, reader, selected.ConfigKeys)
	if err != nil {
		return err
	}

	cfg := &domain.AgentConfig{
		ServerURL:     identity.ServerURL,
		AgentKey:      identity.AgentKey,
		ConnectorType: selected.Kind,
	}
	if err := bindConnectorConfig(cfg, selected.Kind, answers); err != nil {
		return err
	}

	// Step 4: field mapping for row-shaped sources.
	if needsMapping(selected.Kind) {
		cmd.Println()
		cmd.Println("Step 4: Map Source Columns")
		cmd.Println("--------------------------")
		cmd.Println("Name the columns in your source that hold each product field.")
		mapping, err := promptMapping(cmd, reader)
		if err != nil {
			return err
		}
		switch selected.Kind {
		case domain.KindLocalDB:
			cfg.DB.Mapping = *mapping
		case domain.KindCSV:
			cfg.File.Mapping = *mapping
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	// Verify the source before persisting anything.
	cmd.Println()
	cmd.Println("Verifying connection to the inventory source...")
	connector, err := factory.Create(cfg)
	if err != nil {
		return err
	}
	verifyCtx, cancelVerify := context.WithTimeout(cmd.Context(), setupTimeout)
	defer cancelVerify()
	if err := connector.Connect(verifyCtx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	ok := connector.TestConnection(verifyCtx)
	if err := connector.Disconnect(); err != nil {
		return err
	}
	if !ok {
		cmd.Println("Warning: connection test failed. The configuration will still be saved;")
		cmd.Println("fix the source settings and re-run 'smartsync-agent setup' if syncs fail.")
	} else {
		cmd.Println("Connection verified.")
	}

	if err := configStore.Save(cfg); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}

	cmd.Println()
	cmd.Printf("Setup complete. Configuration saved to %s\n", configStore.Path())
	cmd.Println("Start the agent with 'smartsync-agent run'.")
	return nil
}

// promptKeys collects an answer for each config key, enforcing Required
// and hiding Secret input.
func promptKeys(cmd *cobra.Command, reader *bufio.Reader, keys []domain.ConfigKey) (map[string]string, error) {
	answers := make(map[string]string, len(keys))
	for _, key := range keys {
		label := key.Label
		if key.Default != "" {
			label += " [" + key.Default + "]"
		}
		if key.Description != "" {
			cmd.Printf("%s (%s): ", label, key.Description)
		} else {
			cmd.Printf("%s: ", label)
		}

		var value string
		if key.Secret {
			value = readSecret(cmd, reader)
		} else {
			value = readLine(reader)
		}
		if value == "" {
			value = key.Default
		}
		if value == "" && key.Required {
			return nil, fmt.Errorf("%s is required", key.Label)
		}
		answers[key.Key] = value
	}
	return answers, nil
}

func promptMapping(cmd *cobra.Command, reader *bufio.Reader) (*domain.FieldMapping, error) {
	answers, err := promptKeys(cmd, reader, registry.MappingKeys())
	if err != nil {
		return nil, err
	}
	return &domain.FieldMapping{
		SKU:          answers["sku"],
		SellingPrice: answers["sellingPrice"],
		Quantity:     answers["quantity"],
		Name:         answers["name"],
		MRP:          answers["mrp"],
		ExternalID:   answers["externalId"],
		Barcode:      answers["barcode"],
		TaxRate:      answers["taxRate"],
		IsActive:     answers["isActive"],
	}, nil
}

// bindConnectorConfig fills the config variant matching kind from the
// collected answers.
func bindConnectorConfig(cfg *domain.AgentConfig, kind domain.ConnectorKind, answers map[string]string) error {
	switch kind {
	case domain.KindLocalDB:
		port := 0
		if answers["port"] != "" {
			p, err := strconv.Atoi(answers["port"])
			if err != nil {
				return fmt.Errorf("invalid port %q", answers["port"])
			}
			port = p
		}
		cfg.DB = &domain.DBConfig{
			Dialect:          domain.DBDialect(strings.ToLower(answers["type"])),
			Host:             answers["host"],
			Port:             port,
			User:             answers["user"],
			Password:         answers["password"],
			Database:         answers["database"],
			ProductQuery:     answers["productQuery"],
			StockUpdateQuery: answers["stockUpdateQuery"],
		}
	case domain.KindCSV:
		cfg.File = &domain.FileConfig{
			FilePath:   answers["filePath"],
			FolderPath: answers["folderPath"],
		}
	case domain.KindZohoBooks:
		cfg.Zoho = &domain.ZohoConfig{
			OrganizationID: answers["organizationId"],
			AccessToken:    answers["accessToken"],
		}
	default:
		return domain.ErrUnsupportedType
	}
	return nil
}

func needsMapping(kind domain.ConnectorKind) bool {
	return kind == domain.KindLocalDB || kind == domain.KindCSV
}

// availableTypes lists the registry entries the factory can actually build.
func availableTypes() []domain.ConnectorType {
	supported := make(map[domain.ConnectorKind]bool)
	for _, kind := range factory.SupportedKinds() {
		supported[kind] = true
	}

	var types []domain.ConnectorType
	for _, t := range registry.List() {
		if supported[t.Kind] {
			types = append(types, t)
		}
	}
	return types
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret(cmd *cobra.Command, reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.Println()
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
