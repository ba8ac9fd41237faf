package main

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/chat"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/db/models"
	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/flags"
)

type SeedDataFlags struct {
	DBFlags      *flags.PostgresFlags
	InitDatabase bool
	Email        string
	Name         string
	Password     string
}

func NewSeedDataFlags() *SeedDataFlags {
	return &SeedDataFlags{
		DBFlags:  flags.NewPostgresDatabaseFlags(),
		Email:    "demo@example.com",
		Name:     "Demo User",
		Password: "demo-password",
	}
}

func (f *SeedDataFlags) BindFlags(fs *pflag.FlagSet) {
	f.DBFlags.BindFlags(fs)
	fs.BoolVar(&f.InitDatabase, "init-database", false, "Migrate the DB before seeding data")
	fs.StringVar(&f.Email, "email", f.Email, "Email for the demo user")
	fs.StringVar(&f.Name, "name", f.Name, "Name for the demo user")
	fs.StringVar(&f.Password, "password", f.Password, "Password for the demo user")
}

// NewSeedDataCommand creates a demo user with one sample conversation,
// a convenience for local development of the dashboard.
func NewSeedDataCommand() *cobra.Command {
	f := NewSeedDataFlags()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with a demo user and sample conversation",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbc, err := f.DBFlags.GetDBClient()
			if err != nil {
				return errors.WithMessage(err, "could not connect to db")
			}
			defer dbc.Close()

			if f.InitDatabase {
				if err := dbc.UpdateSchema(); err != nil {
					return errors.WithMessage(err, "could not migrate db")
				}
			}

			ctx := context.Background()
			store := chat.NewStore(dbc)

			user, err := store.CreateUser(ctx, f.Email, f.Name, f.Password)
			if errors.Is(err, chat.ErrEmailTaken) {
				log.WithField("email", f.Email).Info("demo user already exists, skipping")
				return nil
			}
			if err != nil {
				return errors.WithMessage(err, "could not create demo user")
			}

			conversation, err := store.CreateConversation(ctx, user.ID, "Recipe Chat 1")
			if err != nil {
				return errors.WithMessage(err, "could not create demo conversation")
			}

			turns := []struct {
				role    string
				content string
			}{
				{models.MessageRoleUser, "Suggest a vegan dinner"},
				{models.MessageRoleAssistant, "Try a chickpea curry with coconut rice."},
			}
			for _, turn := range turns {
				if _, err := store.AppendMessage(ctx, user.ID, conversation.ID, turn.role, turn.content, "", nil); err != nil {
					return errors.WithMessage(err, "could not seed messages")
				}
			}

			log.WithFields(log.Fields{
				"email":          user.Email,
				"conversationID": conversation.ID,
			}).Info("seeded demo data")

			return nil
		},
	}

	f.BindFlags(cmd.Flags())

	return cmd
}
