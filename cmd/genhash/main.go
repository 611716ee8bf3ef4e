// cmd/genhash/main.go: gera hash e salt PBKDF2-SHA256 no formato do registro.
// Uso: go run ./cmd/genhash 'senha'
package main

import (
	"fmt"
	"os"

	"sevensystem/internal/service"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "uso: genhash <senha>")
		os.Exit(2)
	}
	hash, salt, err := service.NovaSenhaRegistro(os.Args[1])
	if err != nil {
		panic(err)
	}
	fmt.Printf("senha_hash=%s\nsalt=%s\nalgoritmo=pbkdf2-sha256\n", hash, salt)
}
