package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/a-marchenko/hookah-notes-api/internal/config"
	"github.com/a-marchenko/hookah-notes-api/internal/database"
	"github.com/a-marchenko/hookah-notes-api/internal/handler"
	"github.com/a-marchenko/hookah-notes-api/internal/mail"
	"github.com/a-marchenko/hookah-notes-api/internal/queue"
	"github.com/a-marchenko/hookah-notes-api/internal/repository"
	"github.com/a-marchenko/hookah-notes-api/internal/router"
	queue_publisher "github.com/a-marchenko/hookah-notes-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting disabled, confirmation flows will fail")
	}

	// Drain activity events in the background; the loop reconnects on its own.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	notes := repository.NewNoteRepo(db)
	confirmations := repository.NewConfirmationRepo(rdb)
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, confirmations, mailer, queue_publisher.PublishActivity),
		Users:    handler.NewUserHandler(users),
		Notes:    handler.NewNoteHandler(notes),
		Tags:     handler.NewTagHandler(repository.NewTagRepo(db)),
		Tobaccos: handler.NewTobaccoHandler(repository.NewTobaccoRepo(db)),
		Likes:    handler.NewLikeHandler(repository.NewLikeRepo(db), notes, queue_publisher.PublishActivity),
		Follows:  handler.NewFollowHandler(repository.NewFollowRepo(db), users),
	}

	e := echo.New()
	router.Register(e, cfg, h, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
