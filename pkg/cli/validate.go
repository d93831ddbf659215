package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/cli/config"
	"github.com/secmon-lab/dinewise/pkg/repository/firestore"
	"github.com/secmon-lab/dinewise/pkg/usecase"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var appCfg config.App
	var firestoreProjectID string
	var firestoreDatabaseID string
	var collectionPrefix string

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "firestore-project-id",
		Usage:       "Firestore Project ID (if specified, DB consistency check is performed)",
		Sources:     cli.EnvVars("DINEWISE_FIRESTORE_PROJECT_ID"),
		Destination: &firestoreProjectID,
	})
	flags = append(flags, &cli.StringFlag{
		Name:        "firestore-database-id",
		Usage:       "Firestore Database ID",
		Sources:     cli.EnvVars("DINEWISE_FIRESTORE_DATABASE_ID"),
		Destination: &firestoreDatabaseID,
	})
	flags = append(flags, &cli.StringFlag{
		Name:        "firestore-collection-prefix",
		Usage:       "Prefix prepended to every collection name",
		Sources:     cli.EnvVars("DINEWISE_FIRESTORE_COLLECTION_PREFIX"),
		Destination: &collectionPrefix,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate configuration file and optionally check DB consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load and validate the configuration file
			cfg, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logger.Info("Configuration validation passed",
				"user_count", len(cfg.Users),
				"default_user_id", cfg.DefaultUserID,
				"cuisine_mappings", len(cfg.Vocabulary.Cuisines),
				"mood_mappings", len(cfg.Vocabulary.Moods),
			)
			for _, u := range cfg.Users {
				logger.Info("User validated",
					"username", u.Username,
					"location", u.Location,
					"price_range", u.PriceRange,
				)
			}

			// Step 2: If Firestore project ID is specified, run DB consistency check
			if firestoreProjectID == "" {
				logger.Info("No Firestore project ID specified, skipping DB consistency check")
				return nil
			}

			opts := []firestore.Option{firestore.WithCollectionPrefix(collectionPrefix)}
			if firestoreDatabaseID != "" {
				opts = append(opts, firestore.WithDatabaseID(firestoreDatabaseID))
			}
			repo, err := firestore.New(ctx, firestoreProjectID, opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Firestore repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			logger.Info("Using Firestore repository",
				"project_id", firestoreProjectID,
				"database_id", firestoreDatabaseID,
			)

			result, err := usecase.New(repo).ValidateDB(ctx)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			if result.HasIssues() {
				for _, issue := range result.Issues {
					logger.Warn("DB consistency issue found",
						"user_id", issue.UserID,
						"kind", issue.Kind,
						"record_id", issue.RecordID,
						"message", issue.Message,
					)
				}

				return fmt.Errorf("DB consistency check found %d issue(s)", len(result.Issues))
			}

			logger.Info("DB consistency check passed", "users", result.Users)
			return nil
		},
	}
}
