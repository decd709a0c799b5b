package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dvasyliev/cv-responder/internal/ai/gemini"
	"github.com/dvasyliev/cv-responder/internal/apify"
	"github.com/dvasyliev/cv-responder/internal/delivery"
	"github.com/dvasyliev/cv-responder/internal/filtering"
	"github.com/dvasyliev/cv-responder/internal/gdocs"
	"github.com/dvasyliev/cv-responder/internal/hunter"
	"github.com/dvasyliev/cv-responder/internal/logger"
	"github.com/dvasyliev/cv-responder/internal/mailbox"
	"github.com/dvasyliev/cv-responder/internal/pipeline"
	"github.com/dvasyliev/cv-responder/internal/render"
	"github.com/dvasyliev/cv-responder/internal/secrets"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes             = "Yes"
	PromptNo              = "No"
	PromptReportByCompany = "Report by company"
	PromptListingsToFile  = "Dump listings to file"

	defaultStylesheet = "assets/cv_styles.css"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo, PromptReportByCompany, PromptListingsToFile},
}

var runCmd = &cobra.Command{
	Use:   "run [resume-document-id]",
	Short: "Run the cv-responder main command",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("skip-dedup", "f", false, "do not exclude recipients found in sent-mail history")
	runCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation if found suitable listings")
	runCmd.Flags().IntP("max-listings", "m", 0, "cap on listings fetched from the source. Default is the source limit.")

	viper.BindPFlag("search.max-items", runCmd.Flags().Lookup("max-listings"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	logger = logger.With(zap.String("run_id", uuid.NewString()))

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-responder", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Mail == nil || config.Mail.From == "" || config.Mail.Username == "" {
		logger.Fatal("mail.from and mail.username are required to send applications")
	}

	if config.Mail.SMTPHost == "" || config.Mail.IMAPAddr == "" {
		logger.Fatal("mail.smtp-host and mail.imap-addr are required to send applications and scan sent history")
	}

	if config.Mail.Signature == "" {
		logger.Fatal("mail.signature is required to close the cover message")
	}

	creds, err := resolveCredentials(config)
	if err != nil {
		logger.Fatal("loading credentials",
			zap.Error(err),
			zap.String("hint", "set the *_FILE environment variables or the corresponding keys in the configuration file"),
		)
	}

	// The stylesheet is loaded before anything else: a broken renderer must
	// abort the run before any listing is processed.
	stylesheet := defaultStylesheet
	if config.Delivery != nil && config.Delivery.Stylesheet != "" {
		stylesheet = config.Delivery.Stylesheet
	}

	renderer, err := render.New(stylesheet, logger)
	if err != nil {
		logger.Fatal("preparing the resume renderer", zap.Error(err))
	}

	resume := fetchResume(ctx, config, args, logger)

	search := &apify.SearchParams{}
	if config.Search != nil {
		search = &config.Search.SearchParams
	}

	listings, err := apify.New(ctx, logger, creds.apifyToken).FetchListings(search)
	if err != nil {
		logger.Fatal("getting job listings", zap.Error(err))
	}

	logger.Info("getting job listings", zap.Int("count", listings.Len()))

	if listings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no listings found"))
		return
	}

	filters := filtering.New(prepareFilters(config), logger)

	filtered, err := filters.RunFilters(ctx, listings)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}
	listings = filtered

	if listings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no listings left after filters"))
		return
	}

	pipe, err := preparePipeline(ctx, cmd, config, creds, renderer, resume, logger)
	if err != nil {
		logger.Fatal("preparing the pipeline", zap.Error(err))
	}

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-aprove").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of listings", zap.Int("count", listings.Len()))

		if err := handleAction(ctx, action, pipe, logger, listings); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if cmd.Flag("auto-aprove").Value.String() == "true" {
			return
		}
	}
}

func handleAction(ctx context.Context, action string, pipe *pipeline.Pipeline, logger *zap.Logger, listings *apify.Listings) error {
	switch action {
	case PromptYes:
		summary, err := pipe.Run(ctx, listings)
		if err != nil {
			return err
		}

		logger.Info("run complete",
			zap.Int("processed", summary.Processed),
			zap.Int("rejected", summary.Rejected),
			zap.Int("no_recipients", summary.NoRecipients),
			zap.Int("all_contacted", summary.AllContacted),
			zap.Int("not_tailored", summary.NotTailored),
			zap.Int("sent", summary.Sent),
			zap.Int("failed", summary.Failed),
		)
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(listings.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("listings count", listings.Len()))
		return nil
	case PromptListingsToFile:
		filename, err := listings.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

type credentials struct {
	apifyToken   string
	hunterKey    string
	geminiKey    string
	mailPassword string
}

func resolveCredentials(config *Config) (*credentials, error) {
	var searchTokenFile, contactsKeyFile, geminiKeyFile, mailPasswordFile string
	if config.Search != nil {
		searchTokenFile = config.Search.TokenFile
	}
	if config.Contacts != nil {
		contactsKeyFile = config.Contacts.APIKeyFile
	}
	if config.AI != nil && config.AI.Gemini != nil {
		geminiKeyFile = config.AI.Gemini.APIKeyFile
	}
	if config.Mail != nil {
		mailPasswordFile = config.Mail.PasswordFile
	}

	apifyToken, err := secrets.Load(secrets.Source{
		Name: "apify token",
		File: searchTokenFile,
		Env:  "APIFY_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	hunterKey, err := secrets.Load(secrets.Source{
		Name: "hunter api key",
		File: contactsKeyFile,
		Env:  "HUNTER_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	geminiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: geminiKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	mailPassword, err := secrets.Load(secrets.Source{
		Name: "mail password",
		File: mailPasswordFile,
		Env:  "SENDER_PASSWORD",
	})
	if err != nil {
		return nil, err
	}

	return &credentials{
		apifyToken:   apifyToken,
		hunterKey:    hunterKey,
		geminiKey:    geminiKey,
		mailPassword: mailPassword,
	}, nil
}

// fetchResume loads the base resume text. Failure is not fatal: the run
// continues with no profile context and the screener judges on the listing
// alone.
func fetchResume(ctx context.Context, config *Config, args []string, logger *zap.Logger) string {
	docID := ""
	if len(args) == 1 {
		docID = args[0]
	}

	serviceAccountFile := ""
	if config.Resume != nil {
		if docID == "" {
			docID = config.Resume.DocumentID
		}
		serviceAccountFile = config.Resume.ServiceAccountFile
	}

	if docID == "" || serviceAccountFile == "" {
		logger.Warn("base resume is not configured, continuing without profile context",
			zap.String("hint", "set resume.document-id and resume.service-account-file"),
		)
		return ""
	}

	docs, err := gdocs.New(ctx, logger, serviceAccountFile)
	if err != nil {
		logger.Warn("failed to prepare the resume source, continuing without profile context", zap.Error(err))
		return ""
	}

	resume, err := docs.DocumentText(docID)
	if err != nil {
		logger.Warn("failed to get the base resume, continuing without profile context", zap.Error(err))
		return ""
	}

	logger.Info("got the base resume", zap.Int("length", len(resume)))

	return resume
}

func prepareFilters(config *Config) []filtering.Filter {
	var excluded []string
	if config.Exclude != nil {
		excluded = config.Exclude.Companies
	}

	return []filtering.Filter{
		filtering.NewCompleteness(),
		filtering.NewExcludedCompanies(excluded),
	}
}

func preparePipeline(ctx context.Context, cmd *cobra.Command, config *Config, creds *credentials, renderer *render.Renderer, resume string, logger *zap.Logger) (*pipeline.Pipeline, error) {
	var model string
	maxLogLength := 0
	if config.AI != nil && config.AI.Gemini != nil {
		model = config.AI.Gemini.Model
		maxLogLength = config.AI.Gemini.MaxLogLength
	}

	generator, err := gemini.NewGenerator(ctx, creds.geminiKey, model)
	if err != nil {
		return nil, fmt.Errorf("building gemini generator: %w", err)
	}

	mailer, err := delivery.NewMailer(delivery.Config{
		SMTPHost:  config.Mail.SMTPHost,
		SMTPPort:  config.Mail.SMTPPort,
		Username:  config.Mail.Username,
		Password:  creds.mailPassword,
		From:      config.Mail.From,
		Signature: config.Mail.Signature,
	}, renderer, logger)
	if err != nil {
		return nil, fmt.Errorf("building mailer: %w", err)
	}

	history := mailbox.New(mailbox.Config{
		Addr:     config.Mail.IMAPAddr,
		Username: config.Mail.Username,
		Password: creds.mailPassword,
		Folder:   config.Mail.SentFolder,
	}, logger)

	skipDedup := false
	if cmd != nil {
		flag := cmd.Flag("skip-dedup")
		if flag != nil && strings.EqualFold(flag.Value.String(), "true") {
			skipDedup = true
		}
	}

	return pipeline.New(
		&pipeline.Config{
			Resume:    resume,
			SkipDedup: skipDedup,
		},
		&pipeline.Deps{
			Logger:   logger,
			Screener: gemini.NewScreener(generator, logger, maxLogLength),
			Tailor:   gemini.NewTailor(generator, logger, maxLogLength),
			Contacts: hunter.New(ctx, logger, creds.hunterKey),
			History:  history,
			Delivery: mailer,
		},
	), nil
}
