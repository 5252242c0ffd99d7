package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"agendamed/internal/pkg/database"
)

// Uso: migrate [-db URL] [up|down|status|reset|version|...] [args]
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: Arquivo .env não encontrado. Usando apenas o ambiente do sistema: %v", err)
	}

	var dsn string
	flag.StringVar(&dsn, "db", os.Getenv("DATABASE_URL"), "URL de conexão PostgreSQL (padrão: DATABASE_URL)")
	flag.Parse()
	if dsn == "" {
		log.Fatal("goose: defina DATABASE_URL ou use -db")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.NewPostgresDB(ctx, dsn)
	if err != nil {
		log.Fatalf("goose: falha ao conectar ao banco: %v\n", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("goose: falha ao fechar o banco: %v\n", err)
		}
	}()

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command := arguments[0]

	if err := database.Migrate(ctx, db, command, arguments[1:]...); err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Printf("goose %s success\n", command)
}
