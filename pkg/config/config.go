package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	Store    StoreConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Cookie   CookieConfig
	Security SecurityConfig
	Mail     MailConfig
	Payment  PaymentConfig
	Checkout CheckoutConfig
	Log      LogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	FrontendURL string // origen(es) permitidos por CORS, separados por coma; el primero se usa en enlaces de email
}

// AllowedOrigins devuelve la lista de orígenes CORS.
func (c AppConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// PublicURL devuelve el primer origen configurado (base de los enlaces enviados por email).
func (c AppConfig) PublicURL() string {
	origins := c.AllowedOrigins()
	if len(origins) == 0 {
		return ""
	}
	return strings.TrimRight(origins[0], "/")
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// StoreConfig selecciona el backend de persistencia: "postgres" o "memory".
type StoreConfig struct {
	Driver string
}

// JWTConfig configuración del token de sesión.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos; por defecto igual a la vida de la cookie (1 año)
	Issuer     string
}

// TTL devuelve la expiración como duración.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.Expiration) * time.Minute
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CookieConfig atributos de la cookie de sesión.
type CookieConfig struct {
	Secure bool
	Domain string
}

// SecurityConfig parámetros de hashing y del flujo de reset.
type SecurityConfig struct {
	BcryptCost           int
	ResetTokenTTLMinutes int
}

// MailConfig credenciales SMTP. Host vacío = los correos solo se registran en el log.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// PaymentConfig pasarela de pago. Provider: "fake" (desarrollo) o "stripe".
type PaymentConfig struct {
	Provider        string
	StripeSecretKey string
	StripeBaseURL   string
	Currency        string
	TimeoutSeconds  int
}

// CheckoutConfig parámetros del reconciliador de checkouts incompletos.
type CheckoutConfig struct {
	ReconcileIntervalSeconds int // 0 = deshabilitado
	ReconcileAfterSeconds    int
}

// LogConfig nivel del logger.
type LogConfig struct {
	Level string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, FRONTEND_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "tienda-api"),
			FrontendURL: getString(v, "FRONTEND_URL", "http://localhost:7777"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "tienda"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Store: StoreConfig{
			Driver: getString(v, "STORE_DRIVER", "postgres"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 365*24*60),
			Issuer:     getString(v, "JWT_ISSUER", "tienda-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 4444),
		},
		Cookie: CookieConfig{
			Secure: getBool(v, "COOKIE_SECURE", false),
			Domain: getString(v, "COOKIE_DOMAIN", ""),
		},
		Security: SecurityConfig{
			BcryptCost:           getInt(v, "BCRYPT_COST", 10),
			ResetTokenTTLMinutes: getInt(v, "RESET_TOKEN_TTL_MINUTES", 60),
		},
		Mail: MailConfig{
			Host:     getString(v, "MAIL_HOST", ""),
			Port:     getInt(v, "MAIL_PORT", 587),
			Username: getString(v, "MAIL_USER", ""),
			Password: getString(v, "MAIL_PASS", ""),
			From:     getString(v, "MAIL_FROM", "no-reply@tienda.local"),
			FromName: getString(v, "MAIL_FROM_NAME", "Tienda"),
		},
		Payment: PaymentConfig{
			Provider:        getString(v, "PAYMENT_PROVIDER", "fake"),
			StripeSecretKey: getString(v, "STRIPE_SECRET", ""),
			StripeBaseURL:   getString(v, "STRIPE_BASE_URL", "https://api.stripe.com"),
			Currency:        getString(v, "PAYMENT_CURRENCY", "usd"),
			TimeoutSeconds:  getInt(v, "PAYMENT_TIMEOUT_SECONDS", 20),
		},
		Checkout: CheckoutConfig{
			ReconcileIntervalSeconds: getInt(v, "CHECKOUT_RECONCILE_INTERVAL_SECONDS", 300),
			ReconcileAfterSeconds:    getInt(v, "CHECKOUT_RECONCILE_AFTER_SECONDS", 120),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es requerido")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
