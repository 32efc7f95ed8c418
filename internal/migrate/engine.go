package migrate

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/airlift/internal/mapping"
	"github.com/mesh-intelligence/airlift/internal/source"
	"github.com/mesh-intelligence/airlift/internal/store"
	"github.com/mesh-intelligence/airlift/pkg/types"
)

// Subcollection names the engine migrates. Other subcollections the walker
// finds are left behind deliberately.
const (
	collectionWithdrawals  = "withdrawals"
	collectionTransactions = "transactions"
)

// Engine runs one migration from the hierarchical source into the
// relational target. It is single-use: create, Run once, discard.
type Engine struct {
	src    source.Source
	store  *store.Store
	mapper *mapping.Mapper
	cfg    types.Config
	log    *zap.Logger

	mu    sync.Mutex
	state State
}

// New assembles an Engine. log may be nil for silent operation.
func New(src source.Source, st *store.Store, mapper *mapping.Mapper, cfg types.Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{src: src, store: st, mapper: mapper, cfg: cfg, log: log}
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Run executes the migration. Canceling ctx stops the engine from taking
// up new bundles; writes already in flight finish, and the partial report
// is returned with Canceled set. A non-nil error means a fatal abort; the
// report still carries every count accumulated before the abort.
func (e *Engine) Run(ctx context.Context) (*types.Report, error) {
	report := types.NewReport()
	fatal := e.run(ctx, report)

	e.setState(StateReporting)
	report.Finish(fatal)
	if fatal != nil {
		e.setState(StateFatallyAborted)
		e.log.Error("migration aborted", zap.Error(fatal))
		return report, fatal
	}
	e.setState(StateSucceeded)
	e.log.Info("migration finished",
		zap.Duration("elapsed", report.Elapsed),
		zap.Bool("canceled", report.Canceled))
	return report, nil
}

func (e *Engine) run(ctx context.Context, report *types.Report) error {
	e.setState(StateSchemaEnsuring)
	if err := e.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	e.setState(StateWalking)
	walker := source.NewWalker(e.src)
	bundles, err := walker.Bundles(ctx, e.cfg.Source.UsersRoot)
	if err != nil {
		return fmt.Errorf("walking %s: %w", e.cfg.Source.UsersRoot, err)
	}
	if len(bundles) == 0 {
		e.log.Warn("source root is absent or empty", zap.String("root", e.cfg.Source.UsersRoot))
		return nil
	}
	e.log.Info("walk complete", zap.String("root", e.cfg.Source.UsersRoot), zap.Int("bundles", len(bundles)))

	for _, bundle := range bundles {
		if ctx.Err() != nil {
			report.MarkCanceled()
			e.log.Warn("canceled, stopping before next bundle", zap.String("key", bundle.Key))
			break
		}
		if err := e.migrateBundle(ctx, bundle, report); err != nil {
			return err
		}
	}
	return nil
}

// migrateBundle migrates one user and their children in dependency order:
// the user row first, then the account, then withdrawals and transactions
// (mutually independent, written concurrently). A non-nil return is fatal.
func (e *Engine) migrateBundle(ctx context.Context, bundle source.Bundle, report *types.Report) error {
	e.setState(StateMapping)
	user, err := e.mapper.User(bundle.Key, bundle.Flat)
	if err != nil {
		report.AddFailed(types.TableUsers)
		e.log.Warn("user rejected", zap.String("key", bundle.Key), zap.Error(err))
		return nil
	}

	e.setState(StateDedup)
	e.setState(StateWriting)
	ok, fatal := e.write(ctx, types.TableUsers, user.UID, report, func(wctx context.Context) (bool, error) {
		return e.store.InsertUser(wctx, user)
	})
	if fatal != nil {
		return fatal
	}
	if !ok {
		// No durable user row means every child insert would break the
		// ownership invariant; the whole bundle is abandoned.
		e.log.Warn("children skipped, user row not written", zap.String("uid", user.UID))
		return nil
	}

	if acct := e.mapper.Account(user.UID, bundle.Record); acct != nil {
		_, fatal := e.write(ctx, types.TableUserAccounts, acct.AccountNumber, report, func(wctx context.Context) (bool, error) {
			return e.store.InsertAccount(wctx, acct)
		})
		if fatal != nil {
			return fatal
		}
	}

	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.SetLimit(e.cfg.Migrate.Workers)
	g.Go(func() error {
		return e.writeWithdrawals(gctx, user.UID, bundle.Collections[collectionWithdrawals], report)
	})
	g.Go(func() error {
		return e.writeTransactions(gctx, user.UID, bundle.Collections[collectionTransactions], report)
	})
	return g.Wait()
}

func (e *Engine) writeWithdrawals(ctx context.Context, uid string, children []source.Child, report *types.Report) error {
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}
		w, err := e.mapper.Withdrawal(uid, child)
		if err != nil {
			report.AddFailed(types.TableWithdrawals)
			e.log.Warn("withdrawal rejected", zap.String("uid", uid), zap.String("ref", child.Key), zap.Error(err))
			continue
		}
		if _, fatal := e.write(ctx, types.TableWithdrawals, child.Key, report, func(wctx context.Context) (bool, error) {
			return e.store.InsertWithdrawal(wctx, w)
		}); fatal != nil {
			return fatal
		}
	}
	return nil
}

func (e *Engine) writeTransactions(ctx context.Context, uid string, children []source.Child, report *types.Report) error {
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}
		tx, err := e.mapper.Transaction(uid, child)
		if err != nil {
			report.AddFailed(types.TableTransactions)
			e.log.Warn("transaction rejected", zap.String("uid", uid), zap.String("ref", child.Key), zap.Error(err))
			continue
		}
		if _, fatal := e.write(ctx, types.TableTransactions, tx.RequestID, report, func(wctx context.Context) (bool, error) {
			return e.store.InsertTransaction(wctx, tx)
		}); fatal != nil {
			return fatal
		}
	}
	return nil
}

// write performs one row insert under the per-row timeout and classifies
// the outcome. ok reports that the row is durably present (inserted now or
// skipped as an existing duplicate). A non-nil fatal aborts the run:
// unreachable target, or a capacity violation that survives the one
// corrective widening pass.
func (e *Engine) write(ctx context.Context, table, key string, report *types.Report, fn func(context.Context) (bool, error)) (ok bool, fatal error) {
	inserted, err := e.insertWithTimeout(ctx, fn)
	if err != nil && store.IsWidthError(err) {
		if werr := e.store.Widen(ctx); werr != nil {
			return false, fmt.Errorf("schema correction failed: %w", werr)
		}
		e.log.Info("widened string columns, retrying row", zap.String("table", table), zap.String("key", key))
		inserted, err = e.insertWithTimeout(ctx, fn)
		if err != nil && store.IsWidthError(err) {
			return false, fmt.Errorf("schema mismatch persists after widening %s: %w", table, err)
		}
	}
	if err != nil {
		if store.IsUnreachable(err) {
			return false, fmt.Errorf("target unreachable: %w", err)
		}
		if store.IsTimeout(err) {
			// A timeout is a row failure unless the connection itself died.
			pingCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.Migrate.WriteTimeout)
			defer cancel()
			if perr := e.store.Ping(pingCtx); perr != nil {
				return false, fmt.Errorf("target unreachable after timeout: %w", perr)
			}
		}
		report.AddFailed(table)
		e.log.Warn("row failed", zap.String("table", table), zap.String("key", key), zap.Error(err))
		return false, nil
	}

	if inserted {
		report.AddMigrated(table)
	} else {
		report.AddSkipped(table)
		e.log.Debug("duplicate skipped", zap.String("table", table), zap.String("key", key))
	}
	return true, nil
}

func (e *Engine) insertWithTimeout(ctx context.Context, fn func(context.Context) (bool, error)) (bool, error) {
	timeout := e.cfg.Migrate.WriteTimeout
	if timeout <= 0 {
		timeout = types.DefaultWriteTimeout
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return fn(wctx)
}
