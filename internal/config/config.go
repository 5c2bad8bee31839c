package config

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Printer   PrinterConfig
	Kitchen   PrinterConfig
	Display   DisplayConfig
	Assets    AssetsConfig
	Shop      ShopConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// PrinterConfig selects a print transport. Type is one of none, usb,
// network, spooler or plugin.
type PrinterConfig struct {
	Type        string
	USBPath     string
	NetworkHost string
	NetworkPort int
	Name        string
	CharWidth   int

	// DialTimeout and WriteTimeout bound network print jobs; zero disables.
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// SameDevice reports whether both configs address the same physical printer.
func (p PrinterConfig) SameDevice(o PrinterConfig) bool {
	if p.Type != o.Type {
		return false
	}
	switch p.Type {
	case "usb":
		return p.USBPath == o.USBPath
	case "network":
		return p.NetworkHost == o.NetworkHost && p.NetworkPort == o.NetworkPort
	case "spooler":
		return p.Name == o.Name
	default:
		return true
	}
}

type DisplayConfig struct {
	Enabled  bool
	Port     string
	BaudRate int
	Settle   time.Duration
	Greeting string
}

type AssetsConfig struct {
	LogoPath string
	QRPath   string
	MaxWidth int
	CacheTTL time.Duration
}

// ShopConfig seeds the shop settings row on first start.
type ShopConfig struct {
	Name           string
	Address        string
	Phone          string
	VATNumber      string
	TaxRate        decimal.Decimal
	TaxLabel       string
	CurrencySymbol string
	Footer         string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "counterpos")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "counterpos")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	viper.SetDefault("PRINTER_TYPE", "none")
	viper.SetDefault("PRINTER_USB_PATH", "/dev/usb/lp0")
	viper.SetDefault("PRINTER_NETWORK_PORT", 9100)
	viper.SetDefault("PRINTER_CHAR_WIDTH", 32)
	viper.SetDefault("PRINTER_DIAL_TIMEOUT", "5s")
	viper.SetDefault("PRINTER_WRITE_TIMEOUT", "10s")

	viper.SetDefault("DISPLAY_ENABLED", false)
	viper.SetDefault("DISPLAY_PORT", "/dev/ttyUSB0")
	viper.SetDefault("DISPLAY_BAUD", 9600)
	viper.SetDefault("DISPLAY_SETTLE_MS", 50)
	viper.SetDefault("DISPLAY_GREETING", "Welcome!")

	viper.SetDefault("ASSET_MAX_WIDTH", 384)
	viper.SetDefault("ASSET_CACHE_TTL", "10m")

	viper.SetDefault("SHOP_NAME", "Counter POS")
	viper.SetDefault("SHOP_TAX_RATE", "0")
	viper.SetDefault("SHOP_TAX_LABEL", "Tax")
	viper.SetDefault("SHOP_CURRENCY_SYMBOL", "$")
	viper.SetDefault("SHOP_FOOTER", "Thank you for your order!")

	receiptPrinter := PrinterConfig{
		Type:         viper.GetString("PRINTER_TYPE"),
		USBPath:      viper.GetString("PRINTER_USB_PATH"),
		NetworkHost:  viper.GetString("PRINTER_NETWORK_HOST"),
		NetworkPort:  viper.GetInt("PRINTER_NETWORK_PORT"),
		Name:         viper.GetString("PRINTER_NAME"),
		CharWidth:    viper.GetInt("PRINTER_CHAR_WIDTH"),
		DialTimeout:  viper.GetDuration("PRINTER_DIAL_TIMEOUT"),
		WriteTimeout: viper.GetDuration("PRINTER_WRITE_TIMEOUT"),
	}

	taxRate, err := decimal.NewFromString(viper.GetString("SHOP_TAX_RATE"))
	if err != nil {
		log.Printf("Warning: invalid SHOP_TAX_RATE %q, using 0", viper.GetString("SHOP_TAX_RATE"))
		taxRate = decimal.Zero
	}

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Printer: receiptPrinter,
		Kitchen: kitchenPrinter(receiptPrinter),
		Display: DisplayConfig{
			Enabled:  viper.GetBool("DISPLAY_ENABLED"),
			Port:     viper.GetString("DISPLAY_PORT"),
			BaudRate: viper.GetInt("DISPLAY_BAUD"),
			Settle:   time.Duration(viper.GetInt("DISPLAY_SETTLE_MS")) * time.Millisecond,
			Greeting: viper.GetString("DISPLAY_GREETING"),
		},
		Assets: AssetsConfig{
			LogoPath: viper.GetString("ASSET_LOGO_PATH"),
			QRPath:   viper.GetString("ASSET_QR_PATH"),
			MaxWidth: viper.GetInt("ASSET_MAX_WIDTH"),
			CacheTTL: viper.GetDuration("ASSET_CACHE_TTL"),
		},
		Shop: ShopConfig{
			Name:           viper.GetString("SHOP_NAME"),
			Address:        viper.GetString("SHOP_ADDRESS"),
			Phone:          viper.GetString("SHOP_PHONE"),
			VATNumber:      viper.GetString("SHOP_VAT_NUMBER"),
			TaxRate:        taxRate,
			TaxLabel:       viper.GetString("SHOP_TAX_LABEL"),
			CurrencySymbol: viper.GetString("SHOP_CURRENCY_SYMBOL"),
			Footer:         viper.GetString("SHOP_FOOTER"),
		},
	}
}

// kitchenPrinter reads KITCHEN_PRINTER_* keys; unset keys inherit from the
// receipt printer.
func kitchenPrinter(def PrinterConfig) PrinterConfig {
	k := def
	if v := viper.GetString("KITCHEN_PRINTER_TYPE"); v != "" {
		k.Type = v
	}
	if v := viper.GetString("KITCHEN_PRINTER_USB_PATH"); v != "" {
		k.USBPath = v
	}
	if v := viper.GetString("KITCHEN_PRINTER_NETWORK_HOST"); v != "" {
		k.NetworkHost = v
	}
	if v := viper.GetInt("KITCHEN_PRINTER_NETWORK_PORT"); v != 0 {
		k.NetworkPort = v
	}
	if v := viper.GetString("KITCHEN_PRINTER_NAME"); v != "" {
		k.Name = v
	}
	if v := viper.GetInt("KITCHEN_PRINTER_CHAR_WIDTH"); v != 0 {
		k.CharWidth = v
	}
	return k
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
