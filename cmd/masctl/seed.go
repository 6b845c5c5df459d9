package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	catalogapp "github.com/masgolf/backend/internal/application/catalog"
	customerapp "github.com/masgolf/backend/internal/application/customer"
	surveyapp "github.com/masgolf/backend/internal/application/survey"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedModels     = []string{"시크릿포스 골드2", "시크릿포스 PRO3", "시크릿웨폰 블랙", "시크릿웨폰 4.1", "V3 드라이버"}
	seedFactors    = []string{"비거리", "방향성", "편안함", "디자인", "가격", "브랜드"}
	seedCategories = []string{"driver", "wood", "iron", "putter", "cap", "glove", "bag"}
	seedColors     = []string{"black", "white", "gold", "navy", "red"}
)

// seedCounts is how many rows of each kind the seed command writes
type seedCounts struct {
	Customers int `json:"customers"`
	Products  int `json:"products"`
	Surveys   int `json:"surveys"`
	Skipped   int `json:"skipped"`
}

func newSeedCmd() *cobra.Command {
	var (
		want seedCounts
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill a development database with fake customers, products and surveys",
		Long: "Writes fake rows through the application services so every validation and\n" +
			"normalization rule applies. Rows that collide with existing data are skipped.\n" +
			"Refuses to run when app.env is production.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()
			if e.cfg.IsProduction() {
				return errors.New("seed refuses to run against a production environment")
			}

			s := &seeder{
				faker:     gofakeit.New(uint64(seed)),
				customers: customerapp.NewService(persistence.NewGormCustomerRepository(e.db.DB), e.log),
				products:  catalogapp.NewService(persistence.NewGormProductRepository(e.db.DB), e.log),
				surveys: surveyapp.NewService(
					persistence.NewGormSurveyRepository(e.db.DB),
					persistence.NewGormCustomerRepository(e.db.DB),
					e.log,
				),
				log: e.log,
			}
			got, err := s.run(cmd.Context(), want)
			fmt.Fprintf(cmd.OutOrStdout(), "customers=%d products=%d surveys=%d skipped=%d\n",
				got.Customers, got.Products, got.Surveys, got.Skipped)
			return err
		},
	}
	cmd.Flags().IntVar(&want.Customers, "customers", 50, "Customers to create")
	cmd.Flags().IntVar(&want.Products, "products", 20, "Products to create")
	cmd.Flags().IntVar(&want.Surveys, "surveys", 30, "Surveys to create")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 picks a random one)")
	return cmd
}

type seeder struct {
	faker     *gofakeit.Faker
	customers *customerapp.Service
	products  *catalogapp.Service
	surveys   *surveyapp.Service
	log       *zap.Logger
}

func (s *seeder) run(ctx context.Context, want seedCounts) (seedCounts, error) {
	var got seedCounts
	for i := 0; i < want.Customers; i++ {
		_, err := s.customers.Create(ctx, fakeCustomer(s.faker))
		if ok, err := s.tally(err, &got.Customers, &got.Skipped); !ok {
			return got, fmt.Errorf("create customer: %w", err)
		}
	}
	for i := 0; i < want.Products; i++ {
		_, err := s.products.Create(ctx, fakeProduct(s.faker))
		if ok, err := s.tally(err, &got.Products, &got.Skipped); !ok {
			return got, fmt.Errorf("create product: %w", err)
		}
	}
	for i := 0; i < want.Surveys; i++ {
		_, err := s.surveys.Create(ctx, fakeSurvey(s.faker))
		if ok, err := s.tally(err, &got.Surveys, &got.Skipped); !ok {
			return got, fmt.Errorf("create survey: %w", err)
		}
	}
	return got, nil
}

// tally counts a created row, or a skipped one when err is a conflict
func (s *seeder) tally(err error, created, skipped *int) (bool, error) {
	switch {
	case err == nil:
		*created++
		return true, nil
	case errors.Is(err, shared.ErrAlreadyExists):
		s.log.Debug("Seed row skipped", zap.Error(err))
		*skipped++
		return true, nil
	default:
		return false, err
	}
}

func fakePhone(f *gofakeit.Faker) string {
	return fmt.Sprintf("010%08d", f.Number(0, 99999999))
}

func fakeCustomer(f *gofakeit.Faker) customerapp.CreateCustomerRequest {
	req := customerapp.CreateCustomerRequest{
		Name:    f.Name(),
		Phone:   fakePhone(f),
		Address: f.Address().Address,
		OptOut:  f.Number(1, 10) == 1,
	}
	if f.Bool() {
		lat, lng := f.Float64Range(34.5, 37.8), f.Float64Range(126.5, 129.3)
		req.Latitude, req.Longitude = &lat, &lng
	}
	if f.Bool() {
		req.Notes = f.Sentence(6)
	}
	return req
}

func fakeProduct(f *gofakeit.Faker) catalogapp.CreateProductRequest {
	category := f.RandomString(seedCategories)
	normal := decimal.NewFromInt(int64(f.Number(10, 150) * 10000))
	req := catalogapp.CreateProductRequest{
		Name:        fmt.Sprintf("%s %s", strings.ToUpper(category[:1])+category[1:], f.Word()),
		SKU:         fmt.Sprintf("SEED-%s-%06d", strings.ToUpper(category), f.Number(0, 999999)),
		Category:    category,
		Color:       f.RandomString(seedColors),
		Condition:   "new",
		NormalPrice: &normal,
	}
	switch category {
	case "cap", "glove":
		req.IsGift = true
		req.MinStockLevel = 5
	default:
		if f.Bool() {
			sale := normal.Mul(decimal.NewFromFloat(0.9)).Round(-3)
			req.SalePrice = &sale
		}
	}
	return req
}

func fakeSurvey(f *gofakeit.Faker) surveyapp.CreateSurveyRequest {
	age := f.Number(35, 80)
	factors := make([]string, 0, 3)
	for _, factor := range seedFactors {
		if len(factors) < 3 && f.Number(1, 3) == 1 {
			factors = append(factors, factor)
		}
	}
	return surveyapp.CreateSurveyRequest{
		Name:             f.Name(),
		Phone:            fakePhone(f),
		Age:              &age,
		SelectedModel:    f.RandomString(seedModels),
		ImportantFactors: factors,
		Address:          f.Address().Address,
		EventCandidate:   f.Bool(),
	}
}
