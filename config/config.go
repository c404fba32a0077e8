package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// Config es la configuración completa del bot.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Scanner  ScannerConfig  `yaml:"scanner"`
	Feed     FeedConfig     `yaml:"feed"`
	Solana   SolanaConfig   `yaml:"solana"`
	Registry RegistryConfig `yaml:"registry"`
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`

	// derivados por Validate
	keys      Keys
	probe     uint64
	minProfit uint64
	tip       uint64
	payerKey  string // solo por entorno (ARB_PAYER_KEY), nunca por YAML
}

// EngineConfig controla el loop de ejecución.
type EngineConfig struct {
	IntervalSeconds      int  `yaml:"interval_seconds"`
	SubmitTimeoutSeconds int  `yaml:"submit_timeout_seconds"`
	BatchSize            int  `yaml:"batch_size"`       // pares por ciclo
	HealthThreshold      int  `yaml:"health_threshold"` // ciclos sin snapshots antes de alertar
	DryRun               bool `yaml:"dry_run"`
}

// ScannerConfig controla la detección de oportunidades. Los montos en SOL
// son strings decimales para no perder precisión en el YAML.
type ScannerConfig struct {
	ProbeSOL       string `yaml:"probe_sol"`
	MinProfitSOL   string `yaml:"min_profit_sol"`
	MinProfitBps   uint32 `yaml:"min_profit_bps"` // umbral relativo al probe, 0 = off
	SlippageBps    uint32 `yaml:"slippage_bps"`
	TipSOL         string `yaml:"tip_sol"`
	SignatureFee   uint64 `yaml:"signature_fee_lamports"`
	Workers        int    `yaml:"workers"` // 0 = NumCPU×2
	FetchTimeoutMS int    `yaml:"fetch_timeout_ms"`
}

// FeedConfig contiene el base URL del indexer de snapshots.
type FeedConfig struct {
	Base string `yaml:"base"`
}

// SolanaConfig contiene endpoints y programas on-chain. Los campos de
// programa opcionales vacíos caen en los defaults de cada adapter.
type SolanaConfig struct {
	RPCEndpoint     string `yaml:"rpc_endpoint"`
	BlockEngine     string `yaml:"block_engine"`
	TipAccount      string `yaml:"tip_account"`
	ReceiverProgram string `yaml:"receiver_program"`
	FacilityProgram string `yaml:"facility_program"`
	FacilityVault   string `yaml:"facility_vault"`
	FacilityFeeBps  uint32 `yaml:"facility_fee_bps"`
	AMMProgram      string `yaml:"amm_program"`
	DEXProgram      string `yaml:"dex_program"`
}

// RegistryConfig apunta al archivo de tokens.
type RegistryConfig struct {
	Path string `yaml:"path"`
}

// TelegramConfig habilita el notifier de Telegram cuando token y chat_id
// están presentes. El token solo entra por entorno (TELEGRAM_TOKEN).
type TelegramConfig struct {
	ChatID string `yaml:"chat_id"`
	Token  string `yaml:"-"`
}

// StorageConfig controla dónde se persiste el journal.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Keys son las claves de SolanaConfig ya parseadas. Las llena Validate;
// antes de eso todos los campos son zero. Las opcionales que quedan en
// zero se resuelven a los defaults del adapter correspondiente.
type Keys struct {
	TipAccount solana.PublicKey
	Receiver   solana.PublicKey
	Facility   solana.PublicKey
	Vault      solana.PublicKey
	AMM        solana.PublicKey
	DEX        solana.PublicKey
	Payer      solana.PrivateKey
}

// PayerPublicKey devuelve la clave pública del payer, o zero si no hay
// clave configurada (dry run).
func (k Keys) PayerPublicKey() solana.PublicKey {
	if len(k.Payer) == 0 {
		return solana.PublicKey{}
	}
	return k.Payer.PublicKey()
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ScanInterval devuelve el intervalo entre ciclos como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Engine.IntervalSeconds) * time.Second
}

// SubmitTimeout devuelve cuánto se espera la confirmación de un bundle.
func (c *Config) SubmitTimeout() time.Duration {
	return time.Duration(c.Engine.SubmitTimeoutSeconds) * time.Second
}

// FetchTimeout devuelve el límite por fetch de snapshot.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Scanner.FetchTimeoutMS) * time.Millisecond
}

// Keys devuelve las claves parseadas. Solo es válido tras Validate.
func (c *Config) Keys() Keys { return c.keys }

// ProbeLamports devuelve el principal del ciclo en lamports.
func (c *Config) ProbeLamports() uint64 { return c.probe }

// MinProfitLamports devuelve el umbral absoluto de ganancia en lamports.
func (c *Config) MinProfitLamports() uint64 { return c.minProfit }

// TipLamports devuelve el tip por bundle en lamports.
func (c *Config) TipLamports() uint64 { return c.tip }

// Validate comprueba el cableado on-chain y los montos, y deja listas las
// claves parseadas y los montos en lamports. Un error aquí es fatal en el
// arranque: no tiene sentido escanear con un receiver o un vault mal
// configurados.
func (c *Config) Validate() error {
	probe, err := parseSOL(c.Scanner.ProbeSOL)
	if err != nil {
		return fmt.Errorf("config: scanner.probe_sol: %w", err)
	}
	if probe == 0 {
		return fmt.Errorf("config: scanner.probe_sol must be positive")
	}

	minProfit, err := parseSOL(c.Scanner.MinProfitSOL)
	if err != nil {
		return fmt.Errorf("config: scanner.min_profit_sol: %w", err)
	}
	if minProfit == 0 {
		return fmt.Errorf("config: scanner.min_profit_sol must be positive")
	}

	tip, err := parseSOL(c.Scanner.TipSOL)
	if err != nil {
		return fmt.Errorf("config: scanner.tip_sol: %w", err)
	}

	for _, f := range []struct {
		name string
		bps  uint32
	}{
		{"scanner.min_profit_bps", c.Scanner.MinProfitBps},
		{"scanner.slippage_bps", c.Scanner.SlippageBps},
		{"solana.facility_fee_bps", c.Solana.FacilityFeeBps},
	} {
		if f.bps > domain.MaxBps {
			return fmt.Errorf("config: %s: %d exceeds %d", f.name, f.bps, domain.MaxBps)
		}
	}

	var keys Keys
	for _, f := range []struct {
		name     string
		value    string
		out      *solana.PublicKey
		required bool
	}{
		{"solana.receiver_program", c.Solana.ReceiverProgram, &keys.Receiver, true},
		{"solana.facility_program", c.Solana.FacilityProgram, &keys.Facility, true},
		{"solana.facility_vault", c.Solana.FacilityVault, &keys.Vault, true},
		{"solana.tip_account", c.Solana.TipAccount, &keys.TipAccount, false},
		{"solana.amm_program", c.Solana.AMMProgram, &keys.AMM, false},
		{"solana.dex_program", c.Solana.DEXProgram, &keys.DEX, false},
	} {
		if f.value == "" {
			if f.required {
				return fmt.Errorf("config: %s is required", f.name)
			}
			continue
		}
		pk, err := solana.PublicKeyFromBase58(f.value)
		if err != nil {
			return fmt.Errorf("config: %s: %w", f.name, err)
		}
		*f.out = pk
	}

	if c.payerKey != "" {
		payer, err := solana.PrivateKeyFromBase58(c.payerKey)
		if err != nil {
			return fmt.Errorf("config: ARB_PAYER_KEY: %w", err)
		}
		keys.Payer = payer
	} else if !c.Engine.DryRun {
		return fmt.Errorf("config: ARB_PAYER_KEY is required unless engine.dry_run is set")
	}

	c.keys = keys
	c.probe = probe
	c.minProfit = minProfit
	c.tip = tip
	return nil
}

// parseSOL convierte un monto decimal en SOL a lamports. Vacío vale cero.
func parseSOL(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return domain.LamportsFromSOL(d)
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("RPC_ENDPOINT"); v != "" {
		cfg.Solana.RPCEndpoint = v
	}
	if v := os.Getenv("FEED_BASE"); v != "" {
		cfg.Feed.Base = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	cfg.payerKey = os.Getenv("ARB_PAYER_KEY")
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Engine.IntervalSeconds <= 0 {
		cfg.Engine.IntervalSeconds = 2
	}
	if cfg.Engine.SubmitTimeoutSeconds <= 0 {
		cfg.Engine.SubmitTimeoutSeconds = 8
	}
	if cfg.Engine.BatchSize <= 0 {
		cfg.Engine.BatchSize = 8
	}
	if cfg.Engine.HealthThreshold <= 0 {
		cfg.Engine.HealthThreshold = 3
	}
	if cfg.Scanner.TipSOL == "" {
		cfg.Scanner.TipSOL = "0"
	}
	if cfg.Scanner.SignatureFee == 0 {
		cfg.Scanner.SignatureFee = 5000 // fee base de la red por firma
	}
	if cfg.Scanner.FetchTimeoutMS <= 0 {
		cfg.Scanner.FetchTimeoutMS = 1500
	}
	if cfg.Solana.RPCEndpoint == "" {
		cfg.Solana.RPCEndpoint = "https://api.mainnet-beta.solana.com"
	}
	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "tokens.json"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "arbbot.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
