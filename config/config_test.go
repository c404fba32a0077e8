package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// wiring agrupa las claves on-chain mínimas que Validate exige.
type wiring struct {
	receiver solana.PublicKey
	facility solana.PublicKey
	vault    solana.PublicKey
}

func newWiring() wiring {
	return wiring{
		receiver: solana.NewWallet().PublicKey(),
		facility: solana.NewWallet().PublicKey(),
		vault:    solana.NewWallet().PublicKey(),
	}
}

func (w wiring) yaml(dryRun bool) string {
	return fmt.Sprintf(`
engine:
  dry_run: %v
scanner:
  probe_sol: "1"
  min_profit_sol: "0.0001"
  tip_sol: "0.00001"
  slippage_bps: 25
solana:
  receiver_program: %s
  facility_program: %s
  facility_vault: %s
  facility_fee_bps: 9
`, dryRun, w.receiver, w.facility, w.vault)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("RPC_ENDPOINT", "")

	path := writeConfig(t, "scanner:\n  probe_sol: \"1\"\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.ScanInterval())
	assert.Equal(t, 8*time.Second, cfg.SubmitTimeout())
	assert.Equal(t, 1500*time.Millisecond, cfg.FetchTimeout())
	assert.Equal(t, 8, cfg.Engine.BatchSize)
	assert.Equal(t, 3, cfg.Engine.HealthThreshold)
	assert.Equal(t, uint64(5000), cfg.Scanner.SignatureFee)
	assert.Equal(t, "0", cfg.Scanner.TipSOL)
	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.Solana.RPCEndpoint)
	assert.Equal(t, "tokens.json", cfg.Registry.Path)
	assert.Equal(t, "arbbot.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RPC_ENDPOINT", "http://localhost:8899")
	t.Setenv("FEED_BASE", "http://localhost:8787")
	t.Setenv("TELEGRAM_TOKEN", "tok-123")
	t.Setenv("TELEGRAM_CHAT_ID", "4242")

	path := writeConfig(t, "log:\n  level: warn\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level, "el entorno gana sobre el YAML")
	assert.Equal(t, "http://localhost:8899", cfg.Solana.RPCEndpoint)
	assert.Equal(t, "http://localhost:8787", cfg.Feed.Base)
	assert.Equal(t, "tok-123", cfg.Telegram.Token)
	assert.Equal(t, "4242", cfg.Telegram.ChatID)
}

func TestLoad_TelegramTokenNeverFromYAML(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")

	path := writeConfig(t, "telegram:\n  token: leaked\n  chat_id: \"7\"\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Empty(t, cfg.Telegram.Token)
	assert.Equal(t, "7", cfg.Telegram.ChatID)
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.Load")
}

func TestValidate_DryRunWithoutPayer(t *testing.T) {
	t.Setenv("ARB_PAYER_KEY", "")

	w := newWiring()
	cfg, err := config.Load(writeConfig(t, w.yaml(true)))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint64(1_000_000_000), cfg.ProbeLamports())
	assert.Equal(t, uint64(100_000), cfg.MinProfitLamports())
	assert.Equal(t, uint64(10_000), cfg.TipLamports())

	keys := cfg.Keys()
	assert.Equal(t, w.receiver, keys.Receiver)
	assert.Equal(t, w.facility, keys.Facility)
	assert.Equal(t, w.vault, keys.Vault)
	assert.True(t, keys.TipAccount.IsZero(), "sin tip_account el adapter usa su default")
	assert.True(t, keys.PayerPublicKey().IsZero())
}

func TestValidate_PayerRequiredWhenLive(t *testing.T) {
	t.Setenv("ARB_PAYER_KEY", "")

	cfg, err := config.Load(writeConfig(t, newWiring().yaml(false)))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARB_PAYER_KEY")
}

func TestValidate_PayerFromEnv(t *testing.T) {
	wallet := solana.NewWallet()
	t.Setenv("ARB_PAYER_KEY", wallet.PrivateKey.String())

	cfg, err := config.Load(writeConfig(t, newWiring().yaml(false)))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, wallet.PublicKey(), cfg.Keys().PayerPublicKey())
}

func TestValidate_MissingVault(t *testing.T) {
	t.Setenv("ARB_PAYER_KEY", "")

	w := newWiring()
	body := fmt.Sprintf(`
engine:
  dry_run: true
scanner:
  probe_sol: "1"
  min_profit_sol: "0.0001"
solana:
  receiver_program: %s
  facility_program: %s
`, w.receiver, w.facility)

	cfg, err := config.Load(writeConfig(t, body))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "facility_vault is required")
}

func TestValidate_MalformedProgramKey(t *testing.T) {
	t.Setenv("ARB_PAYER_KEY", "")

	w := newWiring()
	body := fmt.Sprintf(`
engine:
  dry_run: true
scanner:
  probe_sol: "1"
  min_profit_sol: "0.0001"
solana:
  receiver_program: "not-a-key!"
  facility_program: %s
  facility_vault: %s
`, w.facility, w.vault)

	cfg, err := config.Load(writeConfig(t, body))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "receiver_program")
}

func TestValidate_BpsOutOfRange(t *testing.T) {
	t.Setenv("ARB_PAYER_KEY", "")

	w := newWiring()
	body := fmt.Sprintf(`
engine:
  dry_run: true
scanner:
  probe_sol: "1"
  min_profit_sol: "0.0001"
  slippage_bps: 10001
solana:
  receiver_program: %s
  facility_program: %s
  facility_vault: %s
`, w.receiver, w.facility, w.vault)

	cfg, err := config.Load(writeConfig(t, body))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slippage_bps")
}

func TestValidate_ZeroProbe(t *testing.T) {
	t.Setenv("ARB_PAYER_KEY", "")

	w := newWiring()
	body := fmt.Sprintf(`
engine:
  dry_run: true
scanner:
  probe_sol: "0"
  min_profit_sol: "0.0001"
solana:
  receiver_program: %s
  facility_program: %s
  facility_vault: %s
`, w.receiver, w.facility, w.vault)

	cfg, err := config.Load(writeConfig(t, body))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe_sol must be positive")
}

func TestValidate_SubLamportPrecision(t *testing.T) {
	t.Setenv("ARB_PAYER_KEY", "")

	w := newWiring()
	body := fmt.Sprintf(`
engine:
  dry_run: true
scanner:
  probe_sol: "0.0000000001"
  min_profit_sol: "0.0001"
solana:
  receiver_program: %s
  facility_program: %s
  facility_vault: %s
`, w.receiver, w.facility, w.vault)

	cfg, err := config.Load(writeConfig(t, body))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sub-lamport")
}
