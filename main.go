package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	api "github.com/Kirah-Dev/honoriel-solucoes-site/api"
	"github.com/Kirah-Dev/honoriel-solucoes-site/config"
	"github.com/Kirah-Dev/honoriel-solucoes-site/database"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"github.com/Kirah-Dev/honoriel-solucoes-site/services"
	"github.com/Kirah-Dev/honoriel-solucoes-site/storage"
)

const usage = `usage: site [command]

commands:
  serve              run the web server (default)
  create-admin       create an admin account (-username, password read from stdin)
  migrate            create or update the database tables and exit
  schema-report      print columns that differ between models and database
  generate-queries   generate typed query helpers (-out, default ./query)
`

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	command := "serve"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	ctx := context.Background()
	settings, err := loadSettings(ctx)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogging(settings)

	switch command {
	case "serve":
		err = serve(ctx, settings)
	case "create-admin":
		err = createAdmin(ctx, settings, args, os.Stdin, os.Stdout)
	case "migrate":
		err = withDatabase(settings, func(db *gorm.DB) error {
			if err := models.Migrate(db); err != nil {
				return err
			}
			fmt.Println("Database schema is up to date.")
			return nil
		})
	case "schema-report":
		err = withDatabase(settings, func(db *gorm.DB) error {
			return models.WriteColumnReport(db, os.Stdout)
		})
	case "generate-queries":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		out := fs.String("out", "./query", "output directory for the generated code")
		fs.Parse(args)
		err = withDatabase(settings, func(db *gorm.DB) error {
			models.GenerateQueries(db, *out)
			return nil
		})
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Print(usage)
		os.Exit(2)
	}

	if err != nil {
		log.Error().Err(err).Str("command", command).Msg("command failed")
		os.Exit(1)
	}
}

// loadSettings snapshots the environment, overlays Parameter Store values
// when SSM_PARAMETER_PATH is set and validates the result.
func loadSettings(ctx context.Context) (config.Settings, error) {
	c := config.New()

	if parameterPath := config.GetString(c, "SSM_PARAMETER_PATH", ""); parameterPath != "" {
		ssmCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		client, err := config.NewSSMClient(ssmCtx)
		if err != nil {
			return config.Settings{}, err
		}
		count, err := config.OverlaySSM(ssmCtx, client, parameterPath, c)
		if err != nil {
			return config.Settings{}, err
		}
		fmt.Printf("Loaded %d parameters from %s\n", count, parameterPath)
	}

	return config.Load(c)
}

func setupLogging(settings config.Settings) {
	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if settings.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func withDatabase(settings config.Settings, fn func(db *gorm.DB) error) error {
	db, err := database.Open(settings.DatabaseURL, settings.DatabaseReplicaURLs)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(db)
}

func serve(ctx context.Context, settings config.Settings) error {
	return withDatabase(settings, func(db *gorm.DB) error {
		if settings.AutoMigrate {
			log.Info().Msg("running automatic migration")
			if err := models.Migrate(db); err != nil {
				return err
			}
		}

		store, err := newStore(ctx, settings)
		if err != nil {
			return err
		}

		errChannel := make(chan error, 2)

		server, err := api.NewServer(api.Dependencies{
			Database: database.New(db),
			Store:    store,
			Notifier: newNotifier(settings),
			Settings: settings,
		})
		if err != nil {
			return fmt.Errorf("initialize server: %w", err)
		}

		go server.Start(errChannel)

		// Listen for interrupt signals to gracefully shutdown the server
		go listenToInterrupt(errChannel)

		fatalErr := <-errChannel
		fmt.Printf("Closing server: %v\n", fatalErr)

		server.ShutdownGracefully(30 * time.Second)
		return nil
	})
}

func newStore(ctx context.Context, settings config.Settings) (storage.Store, error) {
	if settings.UploadBackend == config.UploadBackendS3 {
		client, err := storage.NewS3Client(ctx, settings.S3Endpoint)
		if err != nil {
			return nil, err
		}
		log.Info().Str("bucket", settings.S3Bucket).Str("prefix", settings.S3Prefix).Msg("storing uploads in S3")
		return storage.NewS3Store(client, settings.S3Bucket, settings.S3Prefix), nil
	}

	store, err := storage.NewLocalStore(settings.UploadFolder)
	if err != nil {
		return nil, err
	}
	log.Info().Str("folder", settings.UploadFolder).Msg("storing uploads on local disk")
	return store, nil
}

func newNotifier(settings config.Settings) services.Notifier {
	recipient := settings.NotifyRecipient
	if recipient == "" {
		recipient = settings.MailUsername
	}

	var opts []services.NotifierOption
	if settings.SMSEnabled() {
		sms := services.NewTwilioSMS(settings.TwilioAccountSID, settings.TwilioAuthToken, settings.TwilioFromNumber)
		opts = append(opts, services.WithSMS(sms, settings.NotifySMSTo))
	}
	return services.NewNotifier(services.NewMailer(settings), recipient, opts...)
}

func createAdmin(ctx context.Context, settings config.Settings, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	username := fs.String("username", "", "admin username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	if strings.TrimSpace(*username) == "" {
		fmt.Fprint(out, "Username: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read username: %w", err)
		}
		*username = strings.TrimSpace(line)
	}

	fmt.Fprint(out, "Password: ")
	password, err := reader.ReadString('\n')
	if err != nil && password == "" {
		return fmt.Errorf("read password: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")

	return withDatabase(settings, func(db *gorm.DB) error {
		if err := models.Migrate(db); err != nil {
			return err
		}
		user, err := services.NewAccountService(database.New(db)).CreateAdmin(ctx, *username, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Admin %q created.\n", user.Username)
		return nil
	})
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
