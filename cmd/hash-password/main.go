// hash-password prints the bcrypt hash for a password, for seeding users by
// hand. Usage: hash-password <password>
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pitchside/academy-api/internal/utils"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <password>", os.Args[0])
	}
	hash, err := utils.HashPassword(os.Args[1])
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	fmt.Println(hash)
}
