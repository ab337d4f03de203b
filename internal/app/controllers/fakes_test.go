package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yigit/vitrine/internal/app/models"
	"github.com/yigit/vitrine/internal/app/models/dto"
	"github.com/yigit/vitrine/internal/app/repositories"
	"github.com/yigit/vitrine/internal/middleware"
	"github.com/yigit/vitrine/internal/pkg/helpers"
	"github.com/yigit/vitrine/internal/pkg/validation"
	"github.com/yigit/vitrine/web"
)

const testCookie = "vitrine_session"

var errBoom = errors.New("boom")

var (
	adminUser = &models.SessionUser{ID: 1, Nome: "Administrador do Sistema", Email: "admin@email.com", Admin: true}
	alunoUser = &models.SessionUser{ID: 2, Nome: "Ana Silva", Email: "ana@example.com"}
)

// fakeAuthService resolves the tokens "admin" and "aluno"
type fakeAuthService struct {
	loginToken  string
	loginResult validation.Result
	loggedOut   string
}

func (f *fakeAuthService) ResolveCurrentUser(_ context.Context, token string) (*models.SessionUser, error) {
	switch token {
	case "admin":
		return adminUser, nil
	case "aluno":
		return alunoUser, nil
	case "broken":
		return nil, errBoom
	}
	return nil, nil
}

func (f *fakeAuthService) Login(_ context.Context, _ dto.LoginForm) (string, validation.Result, error) {
	if !f.loginResult.Valid() {
		return "", f.loginResult, nil
	}
	return f.loginToken, f.loginResult, nil
}

func (f *fakeAuthService) Logout(_ context.Context, _ *models.SessionUser, token string) error {
	f.loggedOut = token
	return nil
}

type fakeAlunoService struct {
	alunos         map[int64]*models.Aluno
	registerResult validation.Result
	registered     []dto.NovoAlunoForm
	changeResult   validation.Result
	err            error
}

func newFakeAlunoService() *fakeAlunoService {
	return &fakeAlunoService{alunos: map[int64]*models.Aluno{}}
}

func (f *fakeAlunoService) FormOptions(context.Context) ([]models.OpcaoProjeto, error) {
	return []models.OpcaoProjeto{{ID: 1, Nome: "Robótica"}}, nil
}

func (f *fakeAlunoService) Register(_ context.Context, form dto.NovoAlunoForm) (*models.Aluno, validation.Result, error) {
	if f.err != nil {
		return nil, validation.New(), f.err
	}
	if !f.registerResult.Valid() {
		return nil, f.registerResult, nil
	}
	f.registered = append(f.registered, form)
	return &models.Aluno{ID: 10, Nome: form.Nome, Email: form.Email}, f.registerResult, nil
}

func (f *fakeAlunoService) list(aprovado bool, page, size int) *dto.Page[*models.Aluno] {
	items := []*models.Aluno{}
	for _, a := range f.alunos {
		if a.Aprovado == aprovado {
			items = append(items, a)
		}
	}
	return &dto.Page[*models.Aluno]{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(int64(len(items)), page, size),
	}
}

func (f *fakeAlunoService) ListApproved(_ context.Context, page, size int) (*dto.Page[*models.Aluno], error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(true, page, size), nil
}

func (f *fakeAlunoService) ListPending(_ context.Context, page, size int) (*dto.Page[*models.Aluno], error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list(false, page, size), nil
}

func (f *fakeAlunoService) PendingCount(context.Context) (int64, error) {
	return int64(len(f.list(false, 1, 100).Items)), nil
}

func (f *fakeAlunoService) SetApproved(_ context.Context, id int64, approved bool) error {
	if f.err != nil {
		return f.err
	}
	a, ok := f.alunos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Aprovado = approved
	return nil
}

func (f *fakeAlunoService) GetByID(_ context.Context, id int64) (*models.Aluno, error) {
	a, ok := f.alunos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return a, nil
}

func (f *fakeAlunoService) Delete(_ context.Context, id int64) error {
	if _, ok := f.alunos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.alunos, id)
	return nil
}

func (f *fakeAlunoService) ChangePassword(_ context.Context, _ *models.SessionUser, _ dto.AlterarSenhaForm) (validation.Result, error) {
	return f.changeResult, f.err
}

type fakeProjetoService struct {
	projetos     map[int64]*models.Projeto
	members      map[int64]int64
	createResult validation.Result
	gotImage     []byte
	err          error
}

func newFakeProjetoService() *fakeProjetoService {
	return &fakeProjetoService{
		projetos: map[int64]*models.Projeto{},
		members:  map[int64]int64{},
	}
}

func (f *fakeProjetoService) ListWithMembers(context.Context) ([]*models.Projeto, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*models.Projeto{}
	for _, p := range f.projetos {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProjetoService) ListPage(_ context.Context, page, size int) (*dto.Page[*models.Projeto], error) {
	items, err := f.ListWithMembers(context.Background())
	if err != nil {
		return nil, err
	}
	return &dto.Page[*models.Projeto]{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(int64(len(items)), page, size),
	}, nil
}

func (f *fakeProjetoService) Create(_ context.Context, form dto.NovoProjetoForm, imagem io.Reader) (*models.Projeto, validation.Result, error) {
	if imagem != nil {
		data, err := io.ReadAll(imagem)
		if err != nil {
			return nil, validation.New(), err
		}
		f.gotImage = data
	}
	if !f.createResult.Valid() {
		return nil, f.createResult, nil
	}
	p := &models.Projeto{ID: int64(len(f.projetos) + 1), Nome: form.Nome, Descricao: form.Descricao}
	f.projetos[p.ID] = p
	return p, f.createResult, nil
}

func (f *fakeProjetoService) GetForDelete(_ context.Context, id int64) (*models.Projeto, int64, error) {
	p, ok := f.projetos[id]
	if !ok {
		return nil, 0, repositories.ErrNotFound
	}
	return p, f.members[id], nil
}

func (f *fakeProjetoService) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.projetos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.projetos, id)
	return nil
}

type testApp struct {
	router   *gin.Engine
	auth     *fakeAuthService
	alunos   *fakeAlunoService
	projetos *fakeProjetoService
}

// newTestApp wires the controllers the same way the routes package does,
// with the real templates and session middleware.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	app := &testApp{
		auth:     &fakeAuthService{loginToken: "new-token", loginResult: validation.New()},
		alunos:   newFakeAlunoService(),
		projetos: newFakeProjetoService(),
	}
	app.alunos.registerResult = validation.New()
	app.alunos.changeResult = validation.New()
	app.projetos.createResult = validation.New()

	cookie := SessionCookie{Name: testCookie, MaxAge: 3600}
	mainCtl := NewMainController(app.auth, app.projetos, cookie, func(context.Context) error { return nil })
	alunoCtl := NewAlunoController(app.alunos, 6)
	projetoCtl := NewProjetoController(app.projetos, 6, 1<<20)
	mw := middleware.NewAuthMiddleware(app.auth, testCookie)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(mw.SessionAuth())

	r.GET("/", mainCtl.Index)
	r.GET("/login", mainCtl.GetLogin)
	r.POST("/login", mainCtl.PostLogin)
	r.GET("/logout", mainCtl.Logout)
	r.GET("/healthz", mainCtl.Health)
	r.GET("/aluno/novo", alunoCtl.GetNovo)
	r.POST("/aluno/novo", alunoCtl.PostNovo)
	r.POST("/aluno/novo_json", alunoCtl.PostNovoJSON)

	logged := r.Group("/aluno", mw.RequireAuth())
	logged.GET("/dashboard", alunoCtl.Dashboard)
	logged.GET("/alterarsenha", alunoCtl.GetAlterarSenha)
	logged.POST("/alterarsenha", alunoCtl.PostAlterarSenha)

	admin := r.Group("", mw.RequireAdmin())
	admin.GET("/aluno/listagem", alunoCtl.Listagem)
	admin.GET("/aluno/aprovar", alunoCtl.Aprovar)
	admin.GET("/aluno/aprovar/:id", alunoCtl.AprovarID)
	admin.GET("/aluno/desaprovar/:id", alunoCtl.DesaprovarID)
	admin.GET("/aluno/excluir/:id", alunoCtl.GetExcluir)
	admin.POST("/aluno/excluir", alunoCtl.PostExcluir)
	admin.GET("/projeto/listagem", projetoCtl.Listagem)
	admin.GET("/projeto/novo", projetoCtl.GetNovo)
	admin.POST("/projeto/novo", projetoCtl.PostNovo)
	admin.GET("/projeto/excluir/:id", projetoCtl.GetExcluir)
	admin.POST("/projeto/excluir", projetoCtl.PostExcluir)

	app.router = r
	return app
}

func (a *testApp) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path, token string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), token)
}

func (a *testApp) postForm(path string, values url.Values, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, token)
}
