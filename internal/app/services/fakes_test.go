package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yigit/vitrine/internal/app/models"
	"github.com/yigit/vitrine/internal/app/repositories"
	"github.com/yigit/vitrine/internal/db"
	"github.com/yigit/vitrine/internal/pkg/apperrors"
)

// fakeAlunoStore is an in-memory AlunoStore
type fakeAlunoStore struct {
	mu               sync.Mutex
	nextID           int64
	alunos           map[int64]*models.Aluno
	failErr          error
	emailExistsCalls int
}

func newFakeAlunoStore() *fakeAlunoStore {
	return &fakeAlunoStore{alunos: make(map[int64]*models.Aluno)}
}

func (f *fakeAlunoStore) add(a models.Aluno) *models.Aluno {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.ID = f.nextID
	if a.DataCadastro.IsZero() {
		a.DataCadastro = time.Now()
	}
	f.alunos[a.ID] = &a
	return &a
}

func (f *fakeAlunoStore) byEmail(email string) *models.Aluno {
	for _, a := range f.alunos {
		if a.Email == email {
			return a
		}
	}
	return nil
}

func (f *fakeAlunoStore) Create(_ context.Context, aluno *models.Aluno) (*models.Aluno, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	f.mu.Lock()
	taken := f.byEmail(aluno.Email) != nil
	f.mu.Unlock()
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	created := f.add(*aluno)
	*aluno = *created
	return aluno, nil
}

func (f *fakeAlunoStore) SetPassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alunos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Senha = hash
	return nil
}

func (f *fakeAlunoStore) SetToken(_ context.Context, email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byEmail(email)
	if a == nil {
		return repositories.ErrNotFound
	}
	a.Token = token
	return nil
}

func (f *fakeAlunoStore) SetApproved(_ context.Context, id int64, approved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alunos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Aprovado = approved
	return nil
}

func (f *fakeAlunoStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.alunos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.alunos, id)
	return nil
}

func (f *fakeAlunoStore) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emailExistsCalls++
	return f.byEmail(email) != nil, nil
}

func (f *fakeAlunoStore) GetPasswordHashByEmail(_ context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byEmail(email)
	if a == nil {
		return "", repositories.ErrNotFound
	}
	return a.Senha, nil
}

func (f *fakeAlunoStore) GetTokenByEmail(_ context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byEmail(email)
	if a == nil {
		return "", repositories.ErrNotFound
	}
	return a.Token, nil
}

func (f *fakeAlunoStore) filtered(filter models.AlunoFilter) []*models.Aluno {
	var out []*models.Aluno
	for _, a := range f.alunos {
		pending := !a.Aprovado
		approved := a.Aprovado && a.IDProjeto != nil
		if (filter == models.AlunoFilterPending && pending) || (filter == models.AlunoFilterApproved && approved) {
			copied := *a
			out = append(out, &copied)
		}
	}
	if filter == models.AlunoFilterPending {
		sort.Slice(out, func(i, j int) bool { return out[i].DataCadastro.Before(out[j].DataCadastro) })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	}
	return out
}

func paginate[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (f *fakeAlunoStore) ListApprovedPage(_ context.Context, page, size int) ([]*models.Aluno, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return paginate(f.filtered(models.AlunoFilterApproved), page, size), nil
}

func (f *fakeAlunoStore) ListPendingPage(_ context.Context, page, size int) ([]*models.Aluno, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return paginate(f.filtered(models.AlunoFilterPending), page, size), nil
}

func (f *fakeAlunoStore) Count(_ context.Context, filter models.AlunoFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.filtered(filter))), nil
}

func (f *fakeAlunoStore) CountPending(ctx context.Context) (int64, error) {
	return f.Count(ctx, models.AlunoFilterPending)
}

func (f *fakeAlunoStore) GetByID(_ context.Context, id int64) (*models.Aluno, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alunos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAlunoStore) GetSessionUserByToken(_ context.Context, token string) (*models.SessionUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.alunos {
		if token != "" && a.Token == token {
			return &models.SessionUser{ID: a.ID, Nome: a.Nome, Email: a.Email, Admin: a.Admin}, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// fakeProjetoStore is an in-memory ProjetoStore
type fakeProjetoStore struct {
	mu        sync.Mutex
	nextID    int64
	projetos  map[int64]*models.Projeto
	members   map[int64][]string
	createErr error
}

func newFakeProjetoStore() *fakeProjetoStore {
	return &fakeProjetoStore{
		projetos: make(map[int64]*models.Projeto),
		members:  make(map[int64][]string),
	}
}

func (f *fakeProjetoStore) add(nome, descricao string) *models.Projeto {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p := &models.Projeto{ID: f.nextID, Nome: nome, Descricao: descricao}
	f.projetos[p.ID] = p
	return p
}

func (f *fakeProjetoStore) sorted() []*models.Projeto {
	out := make([]*models.Projeto, 0, len(f.projetos))
	for _, p := range f.projetos {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out
}

func (f *fakeProjetoStore) Create(_ context.Context, projeto *models.Projeto) (*models.Projeto, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := f.add(projeto.Nome, projeto.Descricao)
	projeto.ID = created.ID
	return projeto, nil
}

func (f *fakeProjetoStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projetos[id]; !ok {
		return repositories.ErrNotFound
	}
	if len(f.members[id]) > 0 {
		return apperrors.ErrProjectHasMembers
	}
	delete(f.projetos, id)
	return nil
}

func (f *fakeProjetoStore) ListAll(_ context.Context) ([]*models.Projeto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(), nil
}

func (f *fakeProjetoStore) ListForSelection(_ context.Context) ([]models.OpcaoProjeto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OpcaoProjeto
	for _, p := range f.sorted() {
		out = append(out, models.OpcaoProjeto{ID: p.ID, Nome: p.Nome})
	}
	return out, nil
}

func (f *fakeProjetoStore) ListPage(_ context.Context, page, size int) ([]*models.Projeto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return paginate(f.sorted(), page, size), nil
}

func (f *fakeProjetoStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.projetos)), nil
}

func (f *fakeProjetoStore) GetByID(_ context.Context, id int64) (*models.Projeto, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projetos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProjetoStore) CountMembers(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.members[id])), nil
}

func (f *fakeProjetoStore) ListApprovedMemberNamesByProject(_ context.Context) (map[int64][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64][]string, len(f.members))
	for id, names := range f.members {
		out[id] = append([]string(nil), names...)
	}
	return out, nil
}

// fakeTransactor runs fn directly and can fail the commit
type fakeTransactor struct {
	commitErr error
	calls     int
}

func (t *fakeTransactor) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	t.calls++
	if err := fn(ctx, nil); err != nil {
		return err
	}
	return t.commitErr
}

// memoryCache is an in-memory sessioncache.Cache
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*models.SessionUser
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*models.SessionUser)}
}

func (c *memoryCache) Get(_ context.Context, token string) (*models.SessionUser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[token], nil
}

func (c *memoryCache) Set(_ context.Context, token string, user *models.SessionUser) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token] = user
	return nil
}

func (c *memoryCache) Delete(_ context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, token)
	return nil
}

func (c *memoryCache) has(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[token]
	return ok
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func int64Ptr(v int64) *int64 { return &v }

var errBoom = errors.New("boom")
