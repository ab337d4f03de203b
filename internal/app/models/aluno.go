package models

import (
	"time"
)

// Aluno defines the student model based on the 'aluno' table
type Aluno struct {
	ID           int64     `json:"id" db:"id" example:"1"`                                         // Unique identifier for the student
	Nome         string    `json:"nome" db:"nome" example:"Ana Silva"`                             // Full name
	Email        string    `json:"email" db:"email" example:"ana@example.com"`                     // Unique e-mail, stored lower-cased
	Senha        string    `json:"-" db:"senha"`                                                   // bcrypt hash (excluded from JSON)
	Token        string    `json:"-" db:"token"`                                                   // Current session token, empty when logged out
	Admin        bool      `json:"admin" db:"admin" example:"false"`                               // Administrator flag
	Aprovado     bool      `json:"aprovado" db:"aprovado" example:"false"`                         // Approved by an administrator
	DataCadastro time.Time `json:"dataCadastro" db:"data_cadastro" example:"2024-03-01T10:00:00Z"` // Registration time
	IDProjeto    *int64    `json:"idProjeto,omitempty" db:"id_projeto" example:"1"`                // Owning project (nullable)
	NomeProjeto  string    `json:"nomeProjeto,omitempty" db:"-" example:"Robótica"`                // Joined project name, not stored
}

// SessionUser is the identity resolved from a session token
type SessionUser struct {
	ID    int64  `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

// PrimeiroNome returns the first name, used in greetings
func (u *SessionUser) PrimeiroNome() string {
	for i, r := range u.Nome {
		if r == ' ' {
			return u.Nome[:i]
		}
	}
	return u.Nome
}

// AlunoFilter selects which students a count or page covers
type AlunoFilter int

const (
	// AlunoFilterApproved covers approved students assigned to a project
	AlunoFilterApproved AlunoFilter = iota
	// AlunoFilterPending covers students awaiting approval
	AlunoFilterPending
)
