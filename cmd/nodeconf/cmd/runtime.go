package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v2"

	"github.com/flowmesh/nodeconf/codec"
	"github.com/flowmesh/nodeconf/manager"
	"github.com/flowmesh/nodeconf/module"
	"github.com/flowmesh/nodeconf/module/irrecoverable"
	"github.com/flowmesh/nodeconf/store/badgerstore"
)

// withManager opens the local store, starts a tooling-mode manager on top of
// it and hands it to run. The manager is granted proposer capability when
// proposer is set. Shutdown is synchronous: withManager returns only after the
// manager has fully stopped and the store is closed.
func withManager(proposer bool, mtr module.ConfigManagerMetrics, run func(ctx context.Context, m *manager.Manager) error) error {
	db, err := badger.Open(badger.DefaultOptions(flagDataDir).WithLogger(nil))
	if err != nil {
		return fmt.Errorf("could not open store at %s: %w", flagDataDir, err)
	}
	defer db.Close()

	st := badgerstore.New(log, db, codec.ExtractVersion)
	m, err := manager.New(log, mtr, manager.ForTooling(), st)
	if err != nil {
		return fmt.Errorf("could not create configuration manager: %w", err)
	}
	if proposer {
		m.UpgradeToProposer()
	}

	parent, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx, errChan := irrecoverable.WithSignaler(parent)

	m.Start(ctx)
	select {
	case <-m.Ready():
	case err := <-errChan:
		return fmt.Errorf("configuration manager failed to start: %w", err)
	}

	runErr := make(chan error, 1)
	go func() {
		runErr <- run(parent, m)
	}()

	// interrupts abort the command, irrecoverable errors from the manager
	// beat the command's own result
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var result error
	select {
	case result = <-runErr:
	case err := <-errChan:
		result = fmt.Errorf("configuration manager failed: %w", err)
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("interrupted")
	}

	cancel()
	select {
	case <-m.Done():
	case <-time.After(10 * time.Second):
		log.Warn().Msg("configuration manager did not stop in time")
	}
	return result
}
