// Command ecsbench is a small demonstration harness for the ecscore
// component core: it builds a toy world, fixes/releases/compacts a batch
// of demo components, and prints ComponentManager statistics.
//
// It is not a product surface; world bootstrap and system scheduling stay
// out of the ecscore package itself.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ecscore"
)

// runConfig mirrors the StoreOptions growth-policy knobs, loaded from
// flags/env/file via viper before constructing the demo world.
type runConfig struct {
	InitialSize int     `mapstructure:"initial-size"`
	GrowthRate  float64 `mapstructure:"growth-rate"`
	TriggerEdge float64 `mapstructure:"trigger-edge"`
	Entities    int     `mapstructure:"entities"`
	LogLevel    string  `mapstructure:"log-level"`
	LogFormat   string  `mapstructure:"log-format"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("ECSBENCH")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "ecsbench",
		Short: "Drive the ecscore component core through a toy world",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Create, mutate, and compact a batch of demo components",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("ecsbench: reading config: %w", err)
				}
			}

			var cfg runConfig
			if err := v.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("ecsbench: parsing config: %w", err)
			}

			runID := uuid.New()
			return runDemo(cfg, runID)
		},
	}

	runCmd.Flags().Int("initial-size", 8, "initial store capacity")
	runCmd.Flags().Float64("growth-rate", 2.0, "capacity multiplier on growth")
	runCmd.Flags().Float64("trigger-edge", 1.2, "fractional fill that pre-triggers growth")
	runCmd.Flags().Int("entities", 20, "number of demo entities to create")
	runCmd.Flags().String("log-level", "info", "debug|info|warn|error")
	runCmd.Flags().String("log-format", "text", "text|json")
	runCmd.Flags().String("config", "", "optional config file (yaml/json/toml) for the above")

	_ = v.BindPFlag("initial-size", runCmd.Flags().Lookup("initial-size"))
	_ = v.BindPFlag("growth-rate", runCmd.Flags().Lookup("growth-rate"))
	_ = v.BindPFlag("trigger-edge", runCmd.Flags().Lookup("trigger-edge"))
	_ = v.BindPFlag("entities", runCmd.Flags().Lookup("entities"))
	_ = v.BindPFlag("log-level", runCmd.Flags().Lookup("log-level"))
	_ = v.BindPFlag("log-format", runCmd.Flags().Lookup("log-format"))

	root.AddCommand(runCmd)
	return root
}

func runDemo(cfg runConfig, runID uuid.UUID) error {
	logger := ecs.NewLogger(ecs.LogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger = logger.With("run_id", runID.String())

	w := newDemoWorld(logger)
	w.AddSystem(movementSystem{})

	opts := ecs.StoreOptions{
		InitialSize:             cfg.InitialSize,
		AutoIncreaseRate:        cfg.GrowthRate,
		AutoIncreaseTriggerEdge: cfg.TriggerEdge,
		Logger:                  logger,
	}

	ecs.RegisterStore[Position](w.manager, opts)
	ecs.RegisterStore[Velocity](w.manager, opts)
	ecs.RegisterStore[Health](w.manager, opts)

	var refs []ecs.ComponentRef_
	for i := 0; i < cfg.Entities; i++ {
		entity := w.entities.Create()

		posRef := ecs.CreateComponent[Position](w.manager, entity, Position{X: float64(i), Y: 0})
		ecs.CreateComponent[Velocity](w.manager, entity, Velocity{DX: 1, DY: 0.5})
		ecs.CreateComponent[Health](w.manager, entity, NewHealth(100, logger))

		refs = append(refs, posRef.Untyped())
	}

	w.Tick()
	w.Tick()

	// Release every third entity's Position to exercise Release + Rearrange.
	for i, r := range refs {
		if i%3 == 0 {
			w.manager.DestroyComponent(r)
		}
	}
	w.Tick()

	logger.Info("ecsbench run complete",
		"entities", cfg.Entities,
		"stores", w.manager.StoreCount(),
		"created_events", w.created,
		"removed_events", w.destroyed,
	)

	if posStore := ecs.GetStore[Position](w.manager, false); posStore != nil {
		fmt.Printf("Position store: allocated=%d\n", posStore.Allocated())
	}
	return nil
}
