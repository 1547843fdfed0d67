// Command token_gen mints an access token for a given user id against the
// fleet server's own on-disk secret store, for operators exercising
// Bearer-token endpoints without a live /user/signin round trip.
package main

import (
	"fmt"
	"log"
	"os"

	rscrypto "github.com/red-safe/platform/internal/crypto"
	"github.com/red-safe/platform/internal/tokens"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: token_gen <secret-file-path> <user-id>")
	}
	secretPath, userID := os.Args[1], os.Args[2]

	secrets, err := rscrypto.NewSecretStore(secretPath)
	if err != nil {
		log.Fatalf("token_gen: open secret store: %v", err)
	}

	mgr := tokens.NewManager(secrets)
	accessToken, err := mgr.IssueAccessToken(userID)
	if err != nil {
		log.Fatalf("token_gen: issue access token: %v", err)
	}
	fmt.Println(accessToken)
}
