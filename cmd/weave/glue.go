package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aretw0/weave/internal/demo"
	"github.com/aretw0/weave/pkg/adapters/file"
	"github.com/aretw0/weave/pkg/adapters/memory"
	redisstore "github.com/aretw0/weave/pkg/adapters/redis"
	"github.com/aretw0/weave/pkg/equal"
	"github.com/aretw0/weave/pkg/persistence/middleware"
	"github.com/aretw0/weave/pkg/ports"
	"github.com/aretw0/weave/pkg/session"
	"github.com/aretw0/weave/pkg/sheaf"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	mergeName  string
	eventsPath string
	sessionID  string
)

var glueCmd = &cobra.Command{
	Use:   "glue",
	Short: "Glue the metric and imperial odometers and feed them events",
	Long: `Glues a metric odometer (m, km) and an imperial one (m, mi) that meet on
meters into one global odometer, then runs the events through a session.
Sessions live in Redis when redis.addr is configured, in store.dir when that
is set and in memory otherwise, so a persisted session can be resumed with
--session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		merge, err := mergeStrategy(mergeName)
		if err != nil {
			return err
		}
		events, err := loadEvents(eventsPath)
		if err != nil {
			return err
		}
		engine, err := newEngine()
		if err != nil {
			return err
		}

		site, err := demo.DistanceSite()
		if err != nil {
			return err
		}
		global, err := engine.Sheaf(site, demo.DistanceSamples()).
			Glue(ctx, demo.DistanceFamily(), merge, equal.Approx(1e-9, 1e-9))
		if err != nil {
			var inc *sheaf.IncoherentFamily
			if errors.As(err, &inc) {
				return fmt.Errorf("family does not glue: %s", inc.Conflict)
			}
			return err
		}

		store, opts, err := sessionStore()
		if err != nil {
			return err
		}
		mgr := engine.Sessions(global, store, opts...)
		id := sessionID
		if id == "" {
			id = uuid.NewString()
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "agent %s, session %s\n", global.Name(), id)
		for _, e := range events {
			res, err := mgr.Step(ctx, id, e)
			if err != nil {
				return fmt.Errorf("%v: %w", e, err)
			}
			fmt.Fprintf(out, "  %-16v -> %v\n", e, res)
		}
		return nil
	},
}

func mergeStrategy(name string) (*sheaf.Merge, error) {
	switch name {
	case "first", "first-match":
		return sheaf.FirstMatch(), nil
	case "unanimous":
		return sheaf.Unanimous(nil), nil
	case "collect":
		return sheaf.Collect(), nil
	}
	return nil, fmt.Errorf("unknown merge strategy %q (first, unanimous, collect)", name)
}

func sessionStore() (ports.PositionStore, []session.Option, error) {
	var (
		store ports.PositionStore = memory.NewStore()
		opts  []session.Option
	)
	switch {
	case cfg.Redis.Addr != "":
		rs := redisstore.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisstore.WithPrefix(cfg.Redis.Prefix),
			redisstore.WithTTL(cfg.Redis.TTL),
		)
		store = rs
		opts = append(opts, session.WithLocker(redisstore.NewLocker(rs.Client(), cfg.Redis.Prefix)))
	case cfg.Store.Dir != "":
		store = file.New(cfg.Store.Dir)
	}

	if cfg.Store.EncryptionKey == "" {
		return store, opts, nil
	}
	active, err := base64.StdEncoding.DecodeString(cfg.Store.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range cfg.Store.FallbackKeys {
		key, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, nil, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	mw, err := middleware.NewEncryptionMiddleware(enc)
	if err != nil {
		return nil, nil, err
	}
	return middleware.Chain(store, mw), opts, nil
}

func init() {
	glueCmd.Flags().StringVar(&mergeName, "merge", "first", "Merge strategy for overlapping outputs (first, unanimous, collect)")
	glueCmd.Flags().StringVar(&eventsPath, "events", "", "YAML file with the events to feed")
	glueCmd.Flags().StringVar(&sessionID, "session", "", "Session ID to resume (default: a new one)")
	rootCmd.AddCommand(glueCmd)
}
