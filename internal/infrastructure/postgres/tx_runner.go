package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxBeginner lo que el runner necesita del pool (pgxpool.Pool o pgxmock).
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RetryObserver recibe un aviso por cada reintento de transacción.
type RetryObserver interface {
	TxRetried()
}

type noopRetryObserver struct{}

func (noopRetryObserver) TxRetried() {}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Ante fallas transitorias repite el callback completo con backoff exponencial.
type TxRunner struct {
	db          TxBeginner
	maxAttempts int
	lockTimeout time.Duration
	log         zerolog.Logger
	observer    RetryObserver
	newBackOff  func() backoff.BackOff
}

// TxOption configura el TxRunner.
type TxOption func(*TxRunner)

// WithMaxAttempts intentos totales (>= 1).
func WithMaxAttempts(n int) TxOption {
	return func(r *TxRunner) {
		if n >= 1 {
			r.maxAttempts = n
		}
	}
}

// WithLockTimeout fija lock_timeout para cada transacción; 0 lo deja sin límite.
func WithLockTimeout(d time.Duration) TxOption {
	return func(r *TxRunner) { r.lockTimeout = d }
}

// WithLogger logger para los avisos de reintento.
func WithLogger(l zerolog.Logger) TxOption {
	return func(r *TxRunner) { r.log = l }
}

// WithRetryObserver registra reintentos (métricas).
func WithRetryObserver(o RetryObserver) TxOption {
	return func(r *TxRunner) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithBackOff reemplaza la política de espera entre intentos.
func WithBackOff(f func() backoff.BackOff) TxOption {
	return func(r *TxRunner) { r.newBackOff = f }
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db TxBeginner, opts ...TxOption) *TxRunner {
	r := &TxRunner{
		db:          db,
		maxAttempts: 3,
		log:         zerolog.Nop(),
		observer:    noopRetryObserver{},
		newBackOff:  defaultBackOff,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 25 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	return b
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// fn puede ejecutarse más de una vez; no debe acumular estado fuera de la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	attempt := 0
	op := func() error {
		attempt++
		err := r.runOnce(ctx, fn)
		if err == nil || errors.Is(err, domain.ErrTransient) {
			return err
		}
		return backoff.Permanent(err)
	}
	notify := func(err error, wait time.Duration) {
		r.observer.TxRetried()
		r.log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("transacción reintentada")
	}
	b := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxAttempts-1)), ctx)
	return backoff.RetryNotify(op, b, notify)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return classify("begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if r.lockTimeout > 0 {
		ms := strconv.FormatInt(r.lockTimeout.Milliseconds(), 10)
		if _, err := tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", ms); err != nil {
			return classify("set lock_timeout", err)
		}
	}

	if err := fn(txRepos(tx)); err != nil {
		return classify("transaction", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit transaction", err)
	}
	committed = true
	return nil
}

func txRepos(tx pgx.Tx) repository.TxRepos {
	return repository.TxRepos{
		Inventory:  NewInventoryRepository(tx),
		Movements:  NewInventoryMovementRepository(tx),
		Products:   NewProductRepository(tx),
		Sales:      NewSaleRepository(tx),
		Clients:    NewClientRepository(tx),
		Warehouses: NewWarehouseRepository(tx),
	}
}

// classify envuelve como TransientError las fallas reintentables; los errores de negocio pasan intactos.
func classify(op string, err error) error {
	if domain.IsBusinessError(err) || errors.Is(err, domain.ErrTransient) {
		return err
	}
	if IsTransient(err) {
		return &domain.TransientError{Op: op, Err: err}
	}
	if op == "transaction" {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
