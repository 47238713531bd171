// create-admin creates or promotes an administrator account and optionally
// seeds catalog categories from a YAML file.
//
//	create-admin --email admin@example.com --username admin --password s3cret \
//	    --categories deploy/categories.yaml
//
// An existing account with the email is promoted to admin and its password
// is reset. Database settings come from the same environment as the server.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
)

type adminOptions struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// seedFile is the --categories document.
type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
}

type seedCategory struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts adminOptions
	var categoriesPath string

	flagSet := pflag.NewFlagSet("create-admin", pflag.ContinueOnError)
	flagSet.StringVar(&opts.Email, "email", "admin@example.com", "admin email")
	flagSet.StringVar(&opts.Username, "username", "admin", "admin username (used only when creating)")
	flagSet.StringVarP(&opts.Password, "password", "p", "", "admin password (at least 6 characters)")
	flagSet.StringVar(&opts.FirstName, "first-name", "Admin", "first name (used only when creating)")
	flagSet.StringVar(&opts.LastName, "last-name", "Collector", "last name (used only when creating)")
	flagSet.StringVar(&categoriesPath, "categories", "", "YAML file of categories to upsert")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if len(opts.Password) < 6 {
		return errors.New("--password must be at least 6 characters")
	}

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	var seed *seedFile
	if categoriesPath != "" {
		var err error
		if seed, err = loadSeedFile(categoriesPath); err != nil {
			return err
		}
	}

	if err := database.Connect(cfg); err != nil {
		return err
	}
	if err := database.Migrate(database.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	st := store.New(database.DB)

	admin, created, err := ensureAdmin(st, opts, cfg.BcryptCost)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("created admin %s (%s)\n", admin.Email, admin.Username)
	} else {
		fmt.Printf("promoted %s (%s) to admin and reset the password\n", admin.Email, admin.Username)
	}

	if seed != nil {
		added, updated, err := seedCategories(st, seed.Categories, admin.ID)
		if err != nil {
			return err
		}
		fmt.Printf("categories: %d added, %d updated\n", added, updated)
	}
	return nil
}

func loadSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, c := range seed.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("parse %s: category %d has no name", path, i+1)
		}
	}
	return &seed, nil
}

// ensureAdmin creates the account, or promotes the one already holding the
// email. The password is (re)hashed either way.
func ensureAdmin(st *store.Store, opts adminOptions, cost int) (*models.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(opts.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), cost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	existing, err := st.Users.ByEmail(email)
	switch {
	case err == nil:
		user, err := st.Users.Update(existing.ID, map[string]interface{}{
			"password": string(hash),
			"role":     string(models.RoleAdmin),
		})
		if err != nil {
			return nil, false, fmt.Errorf("promote %s: %w", email, err)
		}
		return user, false, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, false, fmt.Errorf("look up %s: %w", email, err)
	}

	user := &models.User{
		Username:  strings.TrimSpace(opts.Username),
		Email:     email,
		Password:  string(hash),
		FirstName: opts.FirstName,
		LastName:  opts.LastName,
		Role:      models.RoleAdmin,
		IsSeller:  true,
	}
	if err := st.Users.Create(user); err != nil {
		return nil, false, fmt.Errorf("create %s: %w", email, err)
	}
	return user, true, nil
}

// seedCategories adds missing categories and refreshes description and icon
// of existing ones, matched by name.
func seedCategories(st *store.Store, categories []seedCategory, createdBy uuid.UUID) (added, updated int, err error) {
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		icon := strings.TrimSpace(c.Icon)
		if icon == "" {
			icon = "📦"
		}

		existing, err := st.Categories.ByName(name)
		switch {
		case err == nil:
			if err := st.Categories.Update(existing.ID, c.Description, icon); err != nil {
				return added, updated, fmt.Errorf("update category %q: %w", name, err)
			}
			updated++
			continue
		case !errors.Is(err, store.ErrNotFound):
			return added, updated, fmt.Errorf("look up category %q: %w", name, err)
		}

		if err := st.Categories.Create(&models.Category{
			Name:        name,
			Slug:        strings.TrimSpace(c.Slug),
			Description: c.Description,
			Icon:        icon,
			CreatedBy:   createdBy,
		}); err != nil {
			return added, updated, fmt.Errorf("create category %q: %w", name, err)
		}
		added++
	}
	return added, updated, nil
}
