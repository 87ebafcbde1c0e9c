package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/imovelhub/imoveis-api/internal/config"
	"github.com/imovelhub/imoveis-api/internal/db"
	"github.com/imovelhub/imoveis-api/internal/imoveis"
	"github.com/imovelhub/imoveis-api/internal/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	db.Connect(cfg.DatabaseURL)
	imoveis.Init()

	h := imoveis.NewHandler(imoveis.NewRepository(db.DB))

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RateLimit(limiter))
	r.Mount("/", imoveis.Router(h))

	fmt.Println("Server listening on port :" + cfg.Port)

	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}
