package dto

// NovoAlunoForm is the body of POST /aluno/novo. IDProjeto is kept raw so an
// invalid selection can be echoed back and reported as a field error.
type NovoAlunoForm struct {
	Nome      string `form:"nome" json:"nome"`
	Email     string `form:"email" json:"email"`
	Senha     string `form:"senha" json:"senha"`
	ConfSenha string `form:"confSenha" json:"confSenha"`
	IDProjeto string `form:"idProjeto" json:"idProjeto"`
}

// NovoAlunoJSONRequest is the body of POST /aluno/novo_json
type NovoAlunoJSONRequest struct {
	Nome      string `json:"nome" binding:"required,min=3,max=50" example:"Ana Silva"`
	Email     string `json:"email" binding:"required,email" example:"ana@example.com"`
	Senha     string `json:"senha" binding:"required,min=6,max=20" example:"abcdef"`
	ConfSenha string `json:"confSenha" binding:"required,min=6,max=20" example:"abcdef"`
	IDProjeto int64  `json:"idProjeto" binding:"required,gt=0" example:"1"`
}

// Form converts the JSON request into the form shape the service validates
func (r NovoAlunoJSONRequest) Form() NovoAlunoForm {
	return NovoAlunoForm{
		Nome:      r.Nome,
		Email:     r.Email,
		Senha:     r.Senha,
		ConfSenha: r.ConfSenha,
		IDProjeto: formatID(r.IDProjeto),
	}
}

// NovoAlunoJSONResponse is the reply of POST /aluno/novo_json
type NovoAlunoJSONResponse struct {
	Ok        bool              `json:"ok" example:"true"`
	ReturnURL string            `json:"returnUrl,omitempty" example:"/"`
	Erros     map[string]string `json:"erros,omitempty"`
}

// AlterarSenhaForm is the body of POST /aluno/alterarsenha
type AlterarSenhaForm struct {
	SenhaAtual    string `form:"senhaAtual"`
	NovaSenha     string `form:"novaSenha"`
	ConfNovaSenha string `form:"confNovaSenha"`
}

// ExcluirForm is the body of the delete confirmations
type ExcluirForm struct {
	ID int64 `form:"id" binding:"required,gt=0"`
}
