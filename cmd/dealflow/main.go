package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dealflow-crm/dealflow/internal/classify"
	"github.com/dealflow-crm/dealflow/internal/config"
	"github.com/dealflow-crm/dealflow/internal/firms"
	"github.com/dealflow-crm/dealflow/internal/history"
	"github.com/dealflow-crm/dealflow/internal/inbox"
	"github.com/dealflow-crm/dealflow/internal/notify"
	"github.com/dealflow-crm/dealflow/internal/template"
	"github.com/dealflow-crm/dealflow/internal/web"
)

var (
	cfgFile   string
	firmsFile string
)

func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

func resolveFirmsPath(cfg *config.Config) string {
	if firmsFile != "" {
		return firmsFile
	}
	if cfg != nil && cfg.FirmsPath != "" {
		return cfg.FirmsPath
	}
	return "data/firms.yaml"
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "dealflow",
		Short: "Dealflow - Email intelligence for PE/VC inboxes",
		Long: `Dealflow reads a deal-sourcing inbox over IMAP, classifies every email
as deal, investor, broker, or general traffic, and extracts companies,
deal values, pipeline stages, and investor names along the way.

Classification history is stored locally; nothing leaves your machine
unless you enable alert emails.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dealflow/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&firmsFile, "firms", "", "firm directory file (default is ./data/firms.yaml)")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(dealsCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(listFirmsCmd())
	rootCmd.AddCommand(addFirmCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long:  "Create a new configuration file with your inbox credentials and alert settings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func syncCmd() *cobra.Command {
	var limit int
	var alerts bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch and classify the inbox",
		Long:  "Fetch recent emails over IMAP, classify them, and record the results locally.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(limit, alerts)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of recent emails to process (default from config)")
	cmd.Flags().BoolVar(&alerts, "alerts", false, "Send alert emails for deals and high-priority mail")

	return cmd
}

func dealsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "deals",
		Short: "Show deal-related emails from the inbox",
		Long:  "Fetch and classify the inbox, then show high-confidence deal emails.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeals(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of recent emails to scan (default from config)")

	return cmd
}

func listCmd() *cobra.Command {
	var limit int
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List classified emails from the inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(category, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of recent emails to scan (default from config)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category (deal/investor/broker/general)")

	return cmd
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [file]",
		Short: "Classify a single email from a JSON file or stdin",
		Long: `Classify one email without touching the inbox or history.

The input is a JSON object with subject, body {content, contentType},
and from {name, address} fields. Reads stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runClassify(path)
		},
	}
}

func statsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show classification history and statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of recent emails to show")

	return cmd
}

func listFirmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "firms",
		Short: "List known firms in the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListFirms()
		},
	}
}

func addFirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-firm",
		Short: "Add a firm to the directory",
		Long:  "Interactively add an investor, broker, or portfolio firm to the local directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddFirm()
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local dashboard",
		Long: `Start a local web server with a browser-based view of classified emails.

The server runs locally on your machine - no data is sent to external servers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")

	return cmd
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("📬 Dealflow Configuration Setup")
	fmt.Println("================================")
	fmt.Println()

	cfg := &config.Config{}

	fmt.Println("Inbox (IMAP) Settings")
	fmt.Println()

	provider := prompt(reader, "Provider (gmail/outlook/imap) [gmail]: ")
	if provider == "" {
		provider = "gmail"
	}
	cfg.Inbox.Provider = provider
	if provider == "imap" {
		cfg.Inbox.Server = prompt(reader, "IMAP server: ")
		port := prompt(reader, "IMAP port [993]: ")
		cfg.Inbox.Port = 993
		if port != "" {
			p, err := strconv.Atoi(port)
			if err != nil {
				return fmt.Errorf("invalid port: %q", port)
			}
			cfg.Inbox.Port = p
		}
	}
	cfg.Inbox.Email = prompt(reader, "Email address: ")
	cfg.Inbox.Password = prompt(reader, "App password: ")

	fmt.Println()
	enableAlerts := prompt(reader, "Enable alert emails for deals? (y/N): ")
	if strings.EqualFold(enableAlerts, "y") {
		cfg.Notify.Enabled = true
		cfg.Notify.Provider = prompt(reader, "Alert provider (smtp/resend/sendgrid) [smtp]: ")
		if cfg.Notify.Provider == "" {
			cfg.Notify.Provider = "smtp"
		}
		cfg.Notify.From = prompt(reader, "Alert from address: ")
		cfg.Notify.To = prompt(reader, "Alert to address: ")
		if cfg.Notify.Provider == "smtp" {
			cfg.Notify.SMTP.Host = prompt(reader, "SMTP host [smtp.gmail.com]: ")
			if cfg.Notify.SMTP.Host == "" {
				cfg.Notify.SMTP.Host = "smtp.gmail.com"
			}
			cfg.Notify.SMTP.Port = 465
			cfg.Notify.SMTP.UseTLS = true
			cfg.Notify.SMTP.Username = prompt(reader, "SMTP username: ")
			cfg.Notify.SMTP.Password = prompt(reader, "SMTP password: ")
		} else {
			cfg.Notify.APIKey = prompt(reader, "API key: ")
		}
	}

	configPath := resolveConfigPath()
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Printf("✅ Configuration saved to: %s\n", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Run 'dealflow sync' to fetch and classify your inbox")
	fmt.Println("  2. Run 'dealflow deals' to see deal-related emails")
	fmt.Println("  3. Run 'dealflow serve' for the dashboard")

	return nil
}

// newService loads configuration, connects to the mailbox, and wires the
// classification service. Callers must call the returned cleanup func.
func newService(ctx context.Context) (*inbox.Service, *config.Config, func(), error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	lex, err := config.LoadLexicon(cfg.LexiconPath)
	if err != nil {
		return nil, nil, nil, err
	}

	mailbox := inbox.NewMailbox(cfg.Inbox)
	if err := mailbox.Connect(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to inbox: %w", err)
	}
	cleanup := func() { mailbox.Disconnect() }

	return inbox.NewService(mailbox, classify.NewEngine(lex)), cfg, cleanup, nil
}

func effectiveLimit(limit int, cfg *config.Config) int {
	if limit > 0 {
		return limit
	}
	return cfg.Options.MaxResults
}

func runSync(limit int, alerts bool) error {
	ctx := context.Background()

	service, cfg, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	emails, err := service.Categorize(ctx, effectiveLimit(limit, cfg))
	if err != nil {
		return fmt.Errorf("failed to categorize inbox: %w", err)
	}

	store, err := history.NewStore(historyPath(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	defer store.Close()

	directory := loadFirms(cfg)

	stored := 0
	for _, email := range emails {
		record := history.NewRecord(email)
		if directory != nil {
			if firm := directory.FindByDomain(email.From.Address); firm != nil {
				record.FirmID = firm.ID
				record.FirmName = firm.Name
			}
		}
		inserted, err := store.Add(record)
		if err != nil {
			fmt.Printf("  ⚠️  Failed to record %s: %v\n", email.ID, err)
			continue
		}
		if inserted {
			stored++
		}
	}

	summary := inbox.Summarize(emails)
	fmt.Printf("📊 Processed %d emails (%d new)\n", summary.Total, stored)
	fmt.Printf("   Deal: %d  Investor: %d  Broker: %d  General: %d\n",
		summary.Deal, summary.Investor, summary.Broker, summary.General)
	fmt.Printf("   High priority: %d\n", summary.HighPriority)

	if alerts {
		if err := sendAlerts(ctx, cfg, directory, emails, summary); err != nil {
			return err
		}
	}

	return nil
}

// sendAlerts emails one alert per qualifying message plus a batch digest
func sendAlerts(ctx context.Context, cfg *config.Config, directory *firms.Directory, emails []classify.CategorizedEmail, summary inbox.Summary) error {
	if err := cfg.ValidateNotify(); err != nil {
		return err
	}
	sender, err := notify.NewSender(cfg.Notify)
	if err != nil {
		return fmt.Errorf("failed to initialize alert sender: %w", err)
	}
	engine, err := template.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to initialize templates: %w", err)
	}

	var deals []classify.CategorizedEmail
	sent := 0
	for _, email := range emails {
		name := ""
		switch {
		case email.Category == classify.CategoryDeal && email.Confidence > 0.3:
			name = "deal-alert"
			deals = append(deals, email)
		case email.Extracted.Priority == classify.PriorityHigh:
			name = "priority-alert"
		default:
			continue
		}

		var firm *firms.Firm
		if directory != nil {
			firm = directory.FindByDomain(email.From.Address)
		}
		alert, err := engine.Render(name, email, firm)
		if err != nil {
			fmt.Printf("  ⚠️  Failed to render alert: %v\n", err)
			continue
		}
		result := sender.Send(ctx, notify.Message{
			To:      cfg.Notify.To,
			From:    cfg.Notify.From,
			Subject: alert.Subject,
			Body:    alert.Body,
		})
		if !result.Success {
			fmt.Printf("  ⚠️  Failed to send alert: %v\n", result.Error)
			continue
		}
		sent++
	}

	digest, err := engine.RenderDigest(summary, deals)
	if err != nil {
		return fmt.Errorf("failed to render digest: %w", err)
	}
	result := sender.Send(ctx, notify.Message{
		To:      cfg.Notify.To,
		From:    cfg.Notify.From,
		Subject: digest.Subject,
		Body:    digest.Body,
	})
	if !result.Success {
		fmt.Printf("  ⚠️  Failed to send digest: %v\n", result.Error)
	}

	fmt.Printf("📨 Sent %d alerts via %s\n", sent, sender.Name())
	return nil
}

func runDeals(limit int) error {
	ctx := context.Background()

	service, cfg, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	deals, err := service.DealRelated(ctx, effectiveLimit(limit, cfg))
	if err != nil {
		return fmt.Errorf("failed to fetch deals: %w", err)
	}

	if len(deals) == 0 {
		fmt.Println("No deal-related emails found.")
		return nil
	}

	fmt.Printf("💼 Deal-related emails (%d)\n", len(deals))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	for _, email := range deals {
		printEmail(email)
	}

	return nil
}

func runList(category string, limit int) error {
	ctx := context.Background()

	service, cfg, cleanup, err := newService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	max := effectiveLimit(limit, cfg)

	var emails []classify.CategorizedEmail
	if category == "" {
		emails, err = service.Categorize(ctx, max)
	} else {
		emails, err = service.EmailsByCategory(ctx, classify.Category(category), max)
	}
	if err != nil {
		return fmt.Errorf("failed to list emails: %w", err)
	}

	if len(emails) == 0 {
		fmt.Println("No emails found.")
		return nil
	}

	for _, email := range emails {
		printEmail(email)
	}

	return nil
}

func printEmail(email classify.CategorizedEmail) {
	from := email.From.Name
	if from == "" {
		from = email.From.Address
	}
	fmt.Printf("\n%s  [%s %.0f%%]\n", email.Subject, email.Category, email.Confidence*100)
	fmt.Printf("  From: %s  (%s)\n", from, email.ReceivedAt.Format("Jan 2 15:04"))
	if email.Extracted.CompanyName != "" {
		fmt.Printf("  Company: %s\n", email.Extracted.CompanyName)
	}
	if email.Extracted.DealValue != nil {
		fmt.Printf("  Value: %s\n", template.FormatValue(*email.Extracted.DealValue))
	}
	if email.Extracted.DealStage != "" {
		fmt.Printf("  Stage: %s\n", email.Extracted.DealStage)
	}
	if email.Extracted.InvestorName != "" {
		fmt.Printf("  Investor: %s\n", email.Extracted.InvestorName)
	}
	fmt.Printf("  Sentiment: %s  Priority: %s\n", email.Extracted.Sentiment, email.Extracted.Priority)
}

func runClassify(path string) error {
	var data []byte
	var err error
	if path == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var email classify.RawEmail
	if err := json.Unmarshal(data, &email); err != nil {
		return fmt.Errorf("failed to parse email JSON: %w", err)
	}

	// Lexicon overrides apply here too when a config exists
	lex := classify.DefaultLexicon()
	if cfg, err := config.Load(resolveConfigPath()); err == nil {
		if l, err := config.LoadLexicon(cfg.LexiconPath); err == nil {
			lex = l
		}
	}

	result := classify.NewEngine(lex).CategorizeEmail(email)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runStats(limit int) error {
	cfg, _ := config.Load(resolveConfigPath())

	store, err := history.NewStore(historyPath(cfg))
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	stats, err := store.GetStats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Println("📊 Dealflow Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()
	fmt.Printf("  Total classified: %d\n", stats.Total)
	fmt.Printf("  Deal: %d  Investor: %d  Broker: %d  General: %d\n",
		stats.ByCategory["deal"], stats.ByCategory["investor"],
		stats.ByCategory["broker"], stats.ByCategory["general"])
	fmt.Printf("  High priority: %d\n", stats.HighPriority)
	fmt.Printf("  Average confidence: %.0f%%\n", stats.AvgConfidence*100)
	if stats.Total > 0 {
		fmt.Println("  Confidence spread:")
		for i, label := range []string{"0-20%", "20-40%", "40-60%", "60-80%", "80-100%"} {
			fmt.Printf("    %-8s %d\n", label, stats.ConfidenceBuckets[i])
		}
	}
	if stats.TotalValue > 0 {
		fmt.Printf("  Total deal value seen: %s\n", template.FormatValue(stats.TotalValue))
	}

	records, err := store.GetRecent(limit)
	if err != nil {
		return fmt.Errorf("failed to get recent emails: %w", err)
	}

	if len(records) > 0 {
		fmt.Println()
		fmt.Printf("📜 Recent Emails (last %d)\n", limit)
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

		for _, r := range records {
			from := r.FirmName
			if from == "" {
				from = r.FromAddress
			}
			fmt.Printf("%s  %-8s  %s (%s)\n",
				r.ReceivedAt.Format("2006-01-02 15:04"),
				r.Category,
				r.Subject,
				from,
			)
		}
	}

	return nil
}

func runListFirms() error {
	cfg, _ := config.Load(resolveConfigPath())
	directory, err := firms.LoadFromFile(resolveFirmsPath(cfg))
	if err != nil {
		return fmt.Errorf("failed to load firms: %w", err)
	}

	fmt.Printf("🏛  Known Firms (%d total)\n", len(directory.Firms))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	for _, f := range directory.Firms {
		fmt.Printf("\n%s [%s]\n", f.Name, f.ID)
		fmt.Printf("  📧 %s\n", f.Email)
		if f.Domain != "" {
			fmt.Printf("  🌐 %s\n", f.Domain)
		}
		if f.Type != "" {
			fmt.Printf("  📁 Type: %s\n", f.Type)
		}
		if len(f.Tags) > 0 {
			fmt.Printf("  🏷  Tags: %s\n", strings.Join(f.Tags, ", "))
		}
	}

	return nil
}

func runAddFirm() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("➕ Add Firm")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	f := firms.Firm{}

	f.Name = prompt(reader, "Firm name: ")
	f.ID = strings.ToLower(strings.ReplaceAll(f.Name, " ", "-"))
	f.Email = prompt(reader, "Contact email: ")
	f.Type = prompt(reader, "Type (investor/broker/portfolio): ")
	f.Notes = prompt(reader, "Notes (optional): ")

	cfg, _ := config.Load(resolveConfigPath())
	firmsPath := resolveFirmsPath(cfg)

	var directory *firms.Directory
	if _, err := os.Stat(firmsPath); os.IsNotExist(err) {
		directory = &firms.Directory{}
	} else {
		var err error
		directory, err = firms.LoadFromFile(firmsPath)
		if err != nil {
			return fmt.Errorf("failed to load firms: %w", err)
		}
	}

	if err := directory.Add(f); err != nil {
		return err
	}
	if err := directory.SaveWithBackup(firmsPath); err != nil {
		return fmt.Errorf("failed to save firms: %w", err)
	}

	fmt.Printf("\n✅ Added %s to %s\n", f.Name, firmsPath)
	return nil
}

func runServe(port int) error {
	configPath := resolveConfigPath()
	var cfg *config.Config
	if _, err := os.Stat(configPath); err == nil {
		cfg, err = config.Load(configPath)
		if err != nil {
			fmt.Printf("⚠️  Config exists but failed to load: %v\n", err)
			cfg = nil
		}
	}

	store, err := history.NewStore(historyPath(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	defer store.Close()

	lex := classify.DefaultLexicon()
	if cfg != nil {
		if l, err := config.LoadLexicon(cfg.LexiconPath); err == nil {
			lex = l
		}
	}

	server, err := web.NewServer(port, cfg, store, classify.NewEngine(lex), loadFirms(cfg))
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	return server.Start()
}

func historyPath(cfg *config.Config) string {
	if cfg != nil && cfg.Options.HistoryDB != "" {
		return cfg.Options.HistoryDB
	}
	return history.DefaultDBPath()
}

// loadFirms returns nil when no directory file exists; firm annotation
// is optional everywhere it is used
func loadFirms(cfg *config.Config) *firms.Directory {
	path := resolveFirmsPath(cfg)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	directory, err := firms.LoadFromFile(path)
	if err != nil {
		fmt.Printf("⚠️  Failed to load firms from %s: %v\n", path, err)
		return nil
	}
	return directory
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	text, _ := reader.ReadString('\n')
	return strings.TrimSpace(text)
}
