package imoveis

import (
	"log"

	"github.com/imovelhub/imoveis-api/internal/db"
)

func Init() {
	if err := db.DB.AutoMigrate(&Imovel{}); err != nil {
		log.Fatal("Failed to auto-migrate imoveis table: ", err)
	}

	log.Println("Imoveis module initialized")
}
