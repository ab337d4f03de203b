package models

import "fmt"

// ImagemProjetoDir is the directory, relative to the static root, holding project images
const ImagemProjetoDir = "img/projetos"

// Projeto defines the project model based on the 'projeto' table
type Projeto struct {
	ID          int64    `json:"id" db:"id" example:"1"`
	Nome        string   `json:"nome" db:"nome" example:"Robótica"`
	Descricao   string   `json:"descricao" db:"descricao" example:"Robôs autônomos"`
	Integrantes []string `json:"integrantes,omitempty" db:"-"` // Approved member names, derived
}

// ImagemArquivo returns the image path relative to the static root, e.g. "img/projetos/0007.jpg"
func ImagemArquivo(id int64) string {
	return fmt.Sprintf("%s/%04d.jpg", ImagemProjetoDir, id)
}

// ImagemURL returns the public URL of the project image
func (p *Projeto) ImagemURL() string {
	return "/static/" + ImagemArquivo(p.ID)
}

// OpcaoProjeto is an id/name pair for selection lists
type OpcaoProjeto struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}
