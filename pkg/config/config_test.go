package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.True(t, cfg.Sales.TaxRate.Equal(decimal.RequireFromString("0.16")))
	assert.Equal(t, 3, cfg.DB.TxMaxRetries)
	assert.Equal(t, 5000, cfg.DB.LockTimeoutMS)
	assert.Equal(t, int32(10), cfg.DB.MaxConns)
	assert.Equal(t, int32(1), cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime())
	assert.Equal(t, 30*time.Minute, cfg.DB.MaxConnIdle())
	assert.False(t, cfg.DB.ForceIPv4)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("SALES_TAX_RATE", "0.19")
	v.Set("DB_TX_MAX_RETRIES", "5")
	v.Set("DB_AUTO_MIGRATE", true)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "0.19", cfg.Sales.TaxRate.String())
	assert.Equal(t, 5, cfg.DB.TxMaxRetries)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestFromViper_Invalid(t *testing.T) {
	cases := map[string]map[string]any{
		"tasa negativa":       {"SALES_TAX_RATE": "-0.1"},
		"tasa igual a uno":    {"SALES_TAX_RATE": "1"},
		"tasa no numérica":    {"SALES_TAX_RATE": "abc"},
		"sin reintentos":      {"DB_TX_MAX_RETRIES": 0},
		"driver desconocido":  {"STORE_DRIVER": "mysql"},
		"admin sin password":  {"BOOTSTRAP_ADMIN_USERNAME": "root"},
		"lock timeout negat.": {"DB_LOCK_TIMEOUT_MS": -1},
		"min mayor que max":   {"DB_MIN_CONNS": 5, "DB_MAX_CONNS": 2},
		"sin conexiones":      {"DB_MAX_CONNS": 0},
	}
	for name, vals := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			for k, val := range vals {
				v.Set(k, val)
			}
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "farmacia", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/farmacia?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
