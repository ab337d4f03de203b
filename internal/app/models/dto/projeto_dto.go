package dto

import "strconv"

// NovoProjetoForm holds the text fields of POST /projeto/novo
type NovoProjetoForm struct {
	Nome      string `form:"nome"`
	Descricao string `form:"descricao"`
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
