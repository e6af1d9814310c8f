package main

import (
	"fmt"
	"log"

	"bus-tracker-backend/internal/utils"

	"github.com/joho/godotenv"
)

// Выпускает долгоживущий административный токен для панели управления
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	tokenString, err := utils.GenerateAdminJWT()
	if err != nil {
		log.Fatalf("Ошибка генерации административного токена: %v", err)
	}

	fmt.Printf("Административный токен: %s\n", tokenString)
}
