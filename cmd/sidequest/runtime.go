package main

import (
	"context"
	"errors"

	"sidequest/internal/app"
	"sidequest/internal/config"
	"sidequest/internal/logging"
	"sidequest/internal/persist"
	"sidequest/internal/prefs"
	"sidequest/internal/store"
	"sidequest/internal/templates"
)

// runtime is everything a command needs: config, logger, template data and
// an application context. The store is only opened when asked for.
type runtime struct {
	cfg *config.ProjectConfig
	log *logging.Logger
	set *templates.Set
	db  store.Store
	app *app.App
}

func loadRuntime(ctx context.Context, withStore bool) (*runtime, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Mode)
	if err != nil {
		return nil, err
	}

	set, err := templates.Load(ctx, cfg.Data.Quests, cfg.Data.NPCs)
	if err != nil {
		return nil, err
	}
	for _, d := range set.Diagnostics {
		log.Debug("template data normalized", "code", d.Code, "message", d.Message)
	}

	preferences, err := prefs.Open(cfg.Preferences.Path)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, log: log, set: set}
	if withStore {
		if rt.db, err = openStore(ctx, cfg); err != nil {
			return nil, err
		}
	}
	rt.app = rt.newApp(cfg.Identity, preferences)
	return rt, nil
}

func (rt *runtime) newApp(identity string, preferences *prefs.Store) *app.App {
	return app.New(app.Options{
		Templates: rt.set,
		Gateway:   persist.New(rt.db, rt.cfg.Gateway.Timeout),
		Prefs:     preferences,
		Identity:  identity,
		Grace:     rt.cfg.Undo.GraceWindow,
		Logger:    rt.log,
	})
}

// Close commits pending deletions and releases the store.
func (rt *runtime) Close(ctx context.Context) error {
	err := rt.app.Close(ctx)
	if rt.db != nil {
		err = errors.Join(err, rt.db.Close(ctx))
	}
	rt.log.Sync()
	return err
}
