// createadmin bootstraps the first admin account.
//
//	go run ./cmd/createadmin -username admin -email admin@example.com -password secret
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/examforge/examforge/internal/config"
	"github.com/examforge/examforge/internal/db"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required")
	}

	cfg := config.FromEnv()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	defer dbh.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	id := uuid.NewString()
	_, err = dbh.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, created_at)
		 VALUES ($1,$2,$3,$4,'admin',$5)`,
		id, *username, *email, string(hash), time.Now().Unix())
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin user %s created (id=%s)", *username, id)
}
