// Command seeder fills a running service with demo marketplace activity
// through its public API, so the achievement flow can be exercised end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freelance-marketplace/logger"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type seederConfig struct {
	APIURL       string `envconfig:"SEEDER_API_URL" default:"http://localhost:5200"`
	GatewayToken string `envconfig:"GATEWAY_SERVICE_TOKEN" required:"true"`
	AppEnv       string `envconfig:"APP_ENV" default:"development"`
}

var jobTitles = []string{
	"Build a REST API in Go",
	"Design a landing page",
	"Write onboarding emails",
	"Migrate Postgres to v16",
	"Logo for a coffee brand",
	"Fix flaky CI pipeline",
	"Translate docs to Spanish",
	"Set up Grafana dashboards",
}

var skillSets = [][]string{
	{"go", "postgres", "docker"},
	{"figma", "ui", "branding"},
	{"copywriting", "seo"},
	{"kubernetes", "terraform", "aws"},
}

func main() {
	clients := flag.Int("clients", 3, "number of client accounts")
	freelancers := flag.Int("freelancers", 5, "number of freelancer accounts")
	jobsPerClient := flag.Int("jobs", 5, "jobs posted per client")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	_ = godotenv.Load()
	var cfg seederConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatal().Err(err).Msg("❌ invalid seeder configuration")
	}
	logger.Init(cfg.AppEnv, "info")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &seeder{
		api: newAPIClient(cfg.APIURL, cfg.GatewayToken),
		rnd: rand.New(rand.NewSource(*seed)),
	}
	if err := s.run(ctx, *clients, *freelancers, *jobsPerClient); err != nil {
		logger.Fatal().Err(err).Msg("❌ seeding failed")
	}
}

type seeder struct {
	api *apiClient
	rnd *rand.Rand

	unlocked int
}

type unlockList struct {
	NewlyUnlocked []struct {
		AchievementID string `json:"achievement_id"`
	} `json:"newly_unlocked"`
}

func (s *seeder) run(ctx context.Context, nClients, nFreelancers, jobsPerClient int) error {
	clients := make([]string, nClients)
	for i := range clients {
		clients[i] = uuid.NewString()
		if err := s.profile(ctx, clients[i], fmt.Sprintf("Client %d", i+1), "client", nil); err != nil {
			return err
		}
	}
	freelancers := make([]string, nFreelancers)
	for i := range freelancers {
		freelancers[i] = uuid.NewString()
		if err := s.profile(ctx, freelancers[i], fmt.Sprintf("Freelancer %d", i+1), "freelancer", skillSets[i%len(skillSets)]); err != nil {
			return err
		}
	}
	logger.Info().Int("clients", nClients).Int("freelancers", nFreelancers).Msg("👤 profiles created")

	for _, client := range clients {
		for j := 0; j < jobsPerClient; j++ {
			var res struct {
				unlockList
				Job struct {
					ID string `json:"id"`
				} `json:"job"`
			}
			body := map[string]interface{}{
				"title":       jobTitles[s.rnd.Intn(len(jobTitles))],
				"description": "Seeded demo job",
				"budget":      float64(50 + s.rnd.Intn(950)),
			}
			if err := s.api.call(ctx, "POST", "/jobs", client, body, &res); err != nil {
				return err
			}
			s.count(res.unlockList)

			if err := s.hire(ctx, client, res.Job.ID, freelancers); err != nil {
				return err
			}
		}
	}

	for _, user := range append(append([]string{}, clients...), freelancers...) {
		for k := 0; k < 1+s.rnd.Intn(6); k++ {
			kinds := []string{"like", "comment", "follow", "share", "ai_assist"}
			var res unlockList
			body := map[string]interface{}{
				"target_id":        uuid.NewString(),
				"interaction_type": kinds[s.rnd.Intn(len(kinds))],
			}
			if err := s.api.call(ctx, "POST", "/interactions", user, body, &res); err != nil {
				return err
			}
			s.count(res)
		}
	}

	logger.Info().Int("achievements_unlocked", s.unlocked).Msg("✅ seeding finished")
	return nil
}

func (s *seeder) profile(ctx context.Context, userID, name, role string, skills []string) error {
	body := map[string]interface{}{
		"display_name":         name,
		"role":                 role,
		"onboarding_completed": true,
	}
	if skills != nil {
		body["bio"] = "Seeded " + role
		body["skills"] = skills
	}
	var res unlockList
	if err := s.api.call(ctx, "PUT", "/user/profile", userID, body, &res); err != nil {
		return err
	}
	s.count(res)
	return nil
}

// hire has a random freelancer apply, get accepted, get paid and get reviewed.
func (s *seeder) hire(ctx context.Context, client, jobID string, freelancers []string) error {
	if len(freelancers) == 0 {
		return nil
	}
	freelancer := freelancers[s.rnd.Intn(len(freelancers))]

	var app struct {
		unlockList
		Application struct {
			ID string `json:"id"`
		} `json:"application"`
	}
	if err := s.api.call(ctx, "POST", "/jobs/"+jobID+"/applications", freelancer, map[string]interface{}{"cover_letter": "Happy to help"}, &app); err != nil {
		return err
	}
	s.count(app.unlockList)

	var accepted unlockList
	if err := s.api.call(ctx, "POST", "/applications/"+app.Application.ID+"/accept", client, nil, &accepted); err != nil {
		return err
	}
	s.count(accepted)

	var order struct {
		unlockList
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}
	body := map[string]interface{}{"seller_id": freelancer, "job_id": jobID, "amount": float64(100 + s.rnd.Intn(400))}
	if err := s.api.call(ctx, "POST", "/orders", client, body, &order); err != nil {
		return err
	}
	s.count(order.unlockList)

	var done unlockList
	if err := s.api.call(ctx, "POST", "/orders/"+order.Order.ID+"/complete", client, nil, &done); err != nil {
		return err
	}
	s.count(done)

	var review unlockList
	body = map[string]interface{}{
		"reviewee_id":    freelancer,
		"order_id":       order.Order.ID,
		"overall_rating": float64(3 + s.rnd.Intn(3)),
		"comment":        "Seeded review",
	}
	if err := s.api.call(ctx, "POST", "/reviews", client, body, &review); err != nil {
		return err
	}
	s.count(review)
	return nil
}

func (s *seeder) count(res unlockList) {
	for _, u := range res.NewlyUnlocked {
		logger.Info().Str("achievement", u.AchievementID).Msg("🏆 unlocked")
	}
	s.unlocked += len(res.NewlyUnlocked)
}
