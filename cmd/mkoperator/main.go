// mkoperator generates an operator account entry for the OPERATORS
// environment variable: it hashes the password with bcrypt and prints
// the JSON object to append to the configured account list.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/platewise/console-api/internal/config"
	"github.com/platewise/console-api/internal/enum"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "", "Operator email address")
	password := flag.String("password", "", "Operator password")
	kitchen := flag.String("kitchen", "", "Kitchen ID the operator is scoped to (omit for ADMIN)")
	role := flag.String("role", enum.RoleOps, "Operator role: ADMIN, OPS or VIEWER")
	flag.Parse()

	if *email == "" {
		*email = os.Getenv("OPERATOR_EMAIL")
	}
	if *password == "" {
		*password = os.Getenv("OPERATOR_PASSWORD")
	}
	if *email == "" || *password == "" {
		log.Fatal("email and password are required (flags or OPERATOR_EMAIL/OPERATOR_PASSWORD)")
	}

	switch *role {
	case enum.RoleAdmin, enum.RoleOps, enum.RoleViewer:
	default:
		log.Fatalf("invalid role %q", *role)
	}

	kitchenID := uuid.Nil
	if *kitchen != "" {
		id, err := uuid.Parse(*kitchen)
		if err != nil {
			log.Fatalf("invalid kitchen ID: %v", err)
		}
		kitchenID = id
	}
	if kitchenID == uuid.Nil && *role != enum.RoleAdmin {
		log.Fatal("non-ADMIN operators must be scoped to a kitchen")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	op := config.Operator{
		ID:           uuid.New(),
		Email:        *email,
		PasswordHash: string(hash),
		KitchenID:    kitchenID,
		Role:         *role,
	}

	out, err := json.MarshalIndent(op, "", "  ")
	if err != nil {
		log.Fatalf("marshal operator: %v", err)
	}
	fmt.Println(string(out))
}
