package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/career-pathfinder/internal/client"
	"alfredoptarigan/career-pathfinder/internal/config"
	"alfredoptarigan/career-pathfinder/internal/logger"
	"alfredoptarigan/career-pathfinder/internal/models"
	"alfredoptarigan/career-pathfinder/internal/progress"
	"alfredoptarigan/career-pathfinder/internal/repositories"
)

// globalFlags override the PATHCTL_* environment.
type globalFlags struct {
	api     string
	store   string
	dsn     string
	client  string
	verbose bool
}

type app struct {
	api       client.API
	explorer  *client.Explorer
	bookmarks *progress.Bookmarks
	progress  *progress.Gamification
	log       *logger.Logger
	close     func() error
}

func loadApp(flags *globalFlags) (*app, error) {
	loaded := config.Load()
	cfg := loaded.Client
	if flags.api != "" {
		cfg.APIBaseURL = strings.TrimRight(flags.api, "/")
	}
	if flags.store != "" {
		cfg.Store = strings.ToLower(flags.store)
	}
	if flags.dsn != "" {
		cfg.DSN = flags.dsn
	}
	if flags.client != "" {
		cfg.ClientKey = flags.client
	}

	log := logger.NewNop()
	if flags.verbose {
		l, err := logger.New("development")
		if err != nil {
			return nil, err
		}
		log = l
	}
	if !loaded.EnvFileLoaded {
		log.Debug("no .env file found, using environment and defaults")
	}

	repo, closeRepo, err := repositories.Open(cfg, flags.verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}
	log.Debug("state store ready", "store", cfg.Store, "client", cfg.ClientKey)

	api := client.NewHTTPAPI(cfg.APIBaseURL, nil)
	a := &app{
		api:       api,
		explorer:  client.NewExplorer(api, client.NewSessionStore(repo), log),
		bookmarks: progress.NewBookmarks(repo),
		progress:  progress.NewGamification(repo),
		log:       log,
		close:     closeRepo,
	}
	return a, nil
}

// profileFile is the YAML shape accepted by "start --profile".
type profileFile struct {
	ID               string   `yaml:"id"`
	CurrentSituation string   `yaml:"currentSituation"`
	Interests        []string `yaml:"interests"`
	Experience       string   `yaml:"experience"`
	Goals            string   `yaml:"goals"`
}

func readProfileFile(path string) (models.UserProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.UserProfile{}, err
	}
	var pf profileFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if strings.TrimSpace(pf.CurrentSituation) == "" && len(pf.Interests) == 0 {
		return models.UserProfile{}, fmt.Errorf("%s: currentSituation or interests is required", path)
	}
	interests := pf.Interests
	if interests == nil {
		interests = []string{}
	}
	return models.UserProfile{
		ID:               pf.ID,
		CurrentSituation: pf.CurrentSituation,
		Interests:        interests,
		Experience:       pf.Experience,
		Goals:            pf.Goals,
	}, nil
}
