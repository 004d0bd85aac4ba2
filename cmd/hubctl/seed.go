package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"hubplus/internal/app"
	dom "hubplus/internal/domain"
	"hubplus/internal/repo"
	"hubplus/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load users, templates, addresses, sessions and campaigns from a YAML fixture",
	Long: `Seeds the database through the service layer, so the same validation applies as over HTTP.
Rows that already exist (same username, template name or address key) are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()
		fx, err := parseFixture(f)
		if err != nil {
			return err
		}
		db, err := app.NewPostgres(cmd.Context(), cfg.PG)
		if err != nil {
			return err
		}
		defer db.Close()
		return seed(cmd.Context(), newSeeder(db), fx)
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "fixture file")
}

type fixture struct {
	Users               []fixtureUser     `yaml:"users"`
	Templates           []fixtureTemplate `yaml:"templates"`
	RestrictedAddresses []fixtureAddress  `yaml:"restricted_addresses"`
	Sessions            []fixtureSession  `yaml:"event_sessions"`
	Campaigns           []fixtureCampaign `yaml:"campaigns"`
}

type fixtureUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Admin    bool   `yaml:"admin"`
}

type fixtureTemplate struct {
	Name    string `yaml:"name"`
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

type fixtureAddress struct {
	Line1  string `yaml:"address_line1"`
	Postal string `yaml:"postal_code"`
	Reason string `yaml:"reason"`
}

type fixtureSession struct {
	Title    string        `yaml:"title"`
	StartsIn time.Duration `yaml:"starts_in"`
	Length   time.Duration `yaml:"length"`
	Capacity int           `yaml:"capacity"`
}

type fixtureCampaign struct {
	Name       string             `yaml:"name"`
	Channel    string             `yaml:"channel"`
	Template   string             `yaml:"template"`
	ScheduleIn time.Duration      `yaml:"schedule_in"`
	Recipients []fixtureRecipient `yaml:"recipients"`
}

type fixtureRecipient struct {
	Email  string `yaml:"email"`
	Name   string `yaml:"name"`
	Line1  string `yaml:"address_line1"`
	Postal string `yaml:"postal_code"`
}

func parseFixture(r io.Reader) (fixture, error) {
	var fx fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	templates := make(map[string]bool, len(fx.Templates))
	for _, t := range fx.Templates {
		templates[t.Name] = true
	}
	for _, c := range fx.Campaigns {
		if c.Template != "" && !templates[c.Template] {
			return fixture{}, fmt.Errorf("campaign %q: unknown template %q", c.Name, c.Template)
		}
	}
	for _, s := range fx.Sessions {
		if s.Length <= 0 {
			return fixture{}, fmt.Errorf("event session %q: length must be positive", s.Title)
		}
	}
	return fx, nil
}

type seeder struct {
	users      *service.UserService
	templates  *service.TemplateService
	restricted *service.RestrictedAddressService
	events     *service.EventService
	campaigns  *service.CampaignService
}

func newSeeder(db *repo.DB) seeder {
	r := repo.NewPGRepos(db)
	return seeder{
		users:      service.NewUserService(r.Users),
		templates:  service.NewTemplateService(r.Templates, nil),
		restricted: service.NewRestrictedAddressService(r.Restricted, nil),
		events:     service.NewEventService(r.Events, nil),
		campaigns:  service.NewCampaignService(r.Campaigns, r.Jobs, r.Templates, nil, nil),
	}
}

func seed(ctx context.Context, s seeder, fx fixture) error {
	for _, u := range fx.Users {
		var err error
		if u.Admin {
			_, err = s.users.CreateAdmin(ctx, u.Username, u.Password)
		} else {
			_, err = s.users.Register(ctx, u.Username, u.Password)
		}
		if skip(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Username, err)
		}
	}

	templateIDs := make(map[string]int64)
	existing, err := s.templates.List(ctx)
	if err != nil {
		return err
	}
	for _, t := range existing {
		templateIDs[t.Name] = t.ID
	}
	for _, t := range fx.Templates {
		if _, ok := templateIDs[t.Name]; ok {
			continue
		}
		created, err := s.templates.Create(ctx, 0, t.Name, t.Subject, t.Body)
		if err != nil {
			return fmt.Errorf("template %s: %w", t.Name, err)
		}
		templateIDs[t.Name] = created.ID
	}

	for _, a := range fx.RestrictedAddresses {
		if _, err := s.restricted.Create(ctx, 0, a.Line1, a.Postal, a.Reason); err != nil && !skip(err) {
			return fmt.Errorf("restricted address %s: %w", a.Line1, err)
		}
	}

	now := time.Now().UTC()
	for _, es := range fx.Sessions {
		starts := now.Add(es.StartsIn)
		if _, err := s.events.CreateSession(ctx, 0, es.Title, starts, starts.Add(es.Length), es.Capacity); err != nil {
			return fmt.Errorf("event session %s: %w", es.Title, err)
		}
	}

	for _, c := range fx.Campaigns {
		in := service.CampaignInput{Name: c.Name, Channel: c.Channel}
		if id, ok := templateIDs[c.Template]; ok {
			in.TemplateID = &id
		}
		if c.ScheduleIn > 0 {
			at := now.Add(c.ScheduleIn)
			in.ScheduledAt = &at
		}
		created, err := s.campaigns.Create(ctx, 0, in)
		if err != nil {
			return fmt.Errorf("campaign %s: %w", c.Name, err)
		}
		if len(c.Recipients) == 0 {
			continue
		}
		list := make([]dom.Recipient, len(c.Recipients))
		for i, r := range c.Recipients {
			list[i] = dom.Recipient{Email: r.Email, Name: r.Name, AddressLine1: r.Line1, PostalCode: r.Postal}
		}
		if _, err := s.campaigns.AddRecipients(ctx, 0, created.ID, list); err != nil {
			return fmt.Errorf("campaign %s recipients: %w", c.Name, err)
		}
	}
	log.Info("seed complete",
		zap.Int("users", len(fx.Users)),
		zap.Int("templates", len(fx.Templates)),
		zap.Int("campaigns", len(fx.Campaigns)))
	return nil
}

// skip reports duplicates, which make seeding idempotent.
func skip(err error) bool {
	return errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, service.ErrConflict)
}
