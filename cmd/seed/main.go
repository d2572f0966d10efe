// seed crea el usuario administrador y carga el catálogo inicial de items
// desde un CSV exportado en ISO-8859-1 (title;description;price;image;largeImage).
//
// Uso: go run ./cmd/seed -csv catalogo.csv -admin-email admin@tienda.com -admin-password secreto
// El precio va en la unidad mayor ("15.00", "15,00") y se guarda en centavos.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-api/pkg/config"
	"github.com/jhoicas/tienda-api/pkg/logger"
	"github.com/jhoicas/tienda-api/pkg/password"
)

type itemRow struct {
	title       string
	description string
	price       int64
	image       string
	largeImage  string
}

func main() {
	csvPath := flag.String("csv", "", "ruta del CSV de items (ISO-8859-1, separado por ';')")
	adminEmail := flag.String("admin-email", "", "email del administrador")
	adminPassword := flag.String("admin-password", "", "contraseña del administrador")
	adminName := flag.String("admin-name", "Admin", "nombre del administrador")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("seed")

	var rows []itemRow
	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *csvPath).Msg("abrir CSV")
		}
		rows, err = parseItems(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer CSV")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	hasher := password.NewHasher(cfg.Security.BcryptCost)
	var admin *entity.User
	err = postgres.NewTxRunner(pool).Run(ctx, func(q postgres.Querier) error {
		users := postgres.NewUserRepository(q)
		admin, err = ensureAdmin(ctx, users, hasher, *adminEmail, *adminPassword, *adminName)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		if admin == nil {
			return errors.New("los items necesitan un dueño: indique -admin-email")
		}
		items := postgres.NewItemRepository(q)
		now := time.Now().UTC()
		for _, r := range rows {
			it := &entity.Item{
				ID:          uuid.NewString(),
				Title:       r.title,
				Description: r.description,
				Price:       r.price,
				Image:       r.image,
				LargeImage:  r.largeImage,
				UserID:      admin.ID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := items.Create(ctx, it); err != nil {
				return fmt.Errorf("item %q: %w", r.title, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed abortado, sin cambios")
	}
	log.Info().Int("items", len(rows)).Bool("admin", admin != nil).Msg("seed completado")
}

type adminStore interface {
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	UpdatePermissions(ctx context.Context, userID string, permissions []entity.Permission) error
}

// ensureAdmin crea el administrador o le otorga todos los permisos si ya existe.
// Sin email no hace nada y devuelve nil.
func ensureAdmin(ctx context.Context, users adminStore, hasher *password.Hasher, email, plain, name string) (*entity.User, error) {
	email = auth.NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := users.UpdatePermissions(ctx, existing.ID, entity.AllPermissions); err != nil {
			return nil, err
		}
		existing.Permissions = entity.AllPermissions
		return existing, nil
	}
	if plain == "" {
		return nil, errors.New("administrador nuevo sin -admin-password")
	}
	hash, err := hasher.Hash(plain)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Permissions:  entity.AllPermissions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// parseItems lee filas title;description;price[;image[;largeImage]]. La primera fila es encabezado.
func parseItems(r io.Reader) ([]itemRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []itemRow
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 3 columnas", i+1)
		}
		title := strings.TrimSpace(rec[0])
		if title == "" {
			continue
		}
		price, err := parsePrice(rec[2])
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		row := itemRow{title: title, description: strings.TrimSpace(rec[1]), price: price}
		if len(rec) > 3 {
			row.image = strings.TrimSpace(rec[3])
		}
		if len(rec) > 4 {
			row.largeImage = strings.TrimSpace(rec[4])
		}
		out = append(out, row)
	}
	return out, nil
}

// parsePrice convierte "15,50" o "15.50" a centavos.
func parsePrice(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("precio %q inválido", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("precio %q negativo", s)
	}
	cents := d.Shift(2).Round(0)
	if cents.GreaterThan(decimal.NewFromInt(entity.MaxAmount)) {
		return 0, fmt.Errorf("precio %q supera el máximo", s)
	}
	return cents.IntPart(), nil
}
