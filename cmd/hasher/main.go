// Command hasher prints the Argon2id hash for a password passed as the
// sole argument, the way an operator seeds or resets a user's
// password_hash column without routing through /user/signup.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/red-safe/platform/internal/authsvc"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: hasher <password>")
	}

	hash, err := authsvc.HashPassword(os.Args[1])
	if err != nil {
		log.Fatalf("hasher: %v", err)
	}
	fmt.Println(hash)
}
