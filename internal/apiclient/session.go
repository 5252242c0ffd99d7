package apiclient

import (
	"encoding/json"
	"fmt"
	"os"

	"agendamed/internal/domain"
)

// Session é o token bearer e o usuário logado, guardados pelo chamador.
type Session domain.Session

func (s *Session) bearer() string {
	if s == nil {
		return ""
	}
	return s.Token
}

// Save grava a sessão em JSON com permissão 0600.
func (s *Session) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("falha ao salvar sessão: %w", err)
	}
	// WriteFile não altera a permissão de um arquivo já existente.
	return os.Chmod(path, 0o600)
}

// LoadSession lê uma sessão salva por Save.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("sessão inválida em %s: %w", path, err)
	}
	if s.Token == "" {
		return nil, fmt.Errorf("sessão em %s sem token", path)
	}
	return &s, nil
}
