package database

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Kirah-Dev/honoriel-solucoes-site/errs"
	"github.com/Kirah-Dev/honoriel-solucoes-site/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) Database {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func addPerson(t *testing.T, d Database, name, email string) *models.Person {
	t.Helper()
	p := &models.Person{FullName: name, Email: email}
	if err := d.PersonRepo().Add(p); err != nil {
		t.Fatalf("add person: %v", err)
	}
	return p
}

func addApplication(t *testing.T, d Database, personID uint, objective string, at time.Time, file *string) *models.Application {
	t.Helper()
	a := &models.Application{PersonID: personID, Objective: objective, SubmittedAt: at, ResumeFile: file}
	if err := d.ApplicationRepo().Add(a); err != nil {
		t.Fatalf("add application: %v", err)
	}
	return a
}

func TestPersonFindByEmail(t *testing.T) {
	d := setupTestDB(t)
	addPerson(t, d, "Ana Souza", "ana@example.com")

	found, err := d.PersonRepo().FindByEmail("ana@example.com")
	if err != nil || found == nil {
		t.Fatalf("FindByEmail: %v %v", found, err)
	}
	missing, err := d.PersonRepo().FindByEmail("nobody@example.com")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for unknown email, got %v %v", missing, err)
	}
}

func TestPersonEmailIsUnique(t *testing.T) {
	d := setupTestDB(t)
	addPerson(t, d, "Ana", "ana@example.com")

	err := d.PersonRepo().Add(&models.Person{FullName: "Other Ana", Email: "ana@example.com"})
	if err == nil {
		t.Fatal("expected unique violation")
	}
	if !errs.IsAlreadyExists(errs.NewDatabaseError("create", "person", err)) {
		t.Fatalf("expected already-exists classification, got %v", err)
	}
}

func TestPersonUpdateProfileOverwritesBlanks(t *testing.T) {
	d := setupTestDB(t)
	p := &models.Person{FullName: "Ana", Email: "ana@example.com", City: "Recife", Phone: "8199999"}
	if err := d.PersonRepo().Add(p); err != nil {
		t.Fatalf("add: %v", err)
	}

	update := &models.Person{ID: p.ID, FullName: "Ana Maria", Email: "ana@example.com", City: "Olinda"}
	if err := d.PersonRepo().UpdateProfile(update); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := d.PersonRepo().FindByID(p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.FullName != "Ana Maria" || got.City != "Olinda" || got.Phone != "" {
		t.Fatalf("unexpected profile after update: %+v", got)
	}
}

func TestReplaceBackgroundKeepsOnlyLatestSet(t *testing.T) {
	d := setupTestDB(t)
	p := addPerson(t, d, "Ana", "ana@example.com")

	first := Background{
		Education: []models.Education{
			{Course: "Administração", Institution: "UFPE"},
			{Course: "MBA", Institution: "FGV"},
		},
		Languages: []models.Language{{Name: "Inglês", Level: "Avançado"}},
	}
	if err := d.PersonRepo().ReplaceBackground(p.ID, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := Background{
		Education:  []models.Education{{Course: "Psicologia", Institution: "UFPE"}},
		Experience: []models.Experience{{Company: "Honoriel", Role: "Analista"}},
	}
	if err := d.PersonRepo().ReplaceBackground(p.ID, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	got, err := d.PersonRepo().FindByID(p.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(got.Education) != 1 || got.Education[0].Course != "Psicologia" {
		t.Fatalf("education = %+v", got.Education)
	}
	if len(got.Experience) != 1 || len(got.Languages) != 0 || len(got.Courses) != 0 {
		t.Fatalf("unexpected background: exp=%d lang=%d courses=%d", len(got.Experience), len(got.Languages), len(got.Courses))
	}
}

func TestPersonDeleteCascades(t *testing.T) {
	d := setupTestDB(t)
	p := addPerson(t, d, "Ana", "ana@example.com")
	other := addPerson(t, d, "Bruno", "bruno@example.com")
	if err := d.PersonRepo().ReplaceBackground(p.ID, Background{
		Education: []models.Education{{Course: "Direito", Institution: "UNICAP"}},
		Courses:   []models.Course{{Name: "Excel"}},
	}); err != nil {
		t.Fatalf("background: %v", err)
	}
	addApplication(t, d, p.ID, "Analista", time.Now(), nil)
	addApplication(t, d, p.ID, "Gerente", time.Now(), nil)
	addApplication(t, d, other.ID, "Estagiário", time.Now(), nil)

	if err := d.PersonRepo().Delete(p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := d.PersonRepo().FindByID(p.ID); !errs.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	apps, err := d.ApplicationRepo().FindByPerson(p.ID)
	if err != nil || len(apps) != 0 {
		t.Fatalf("applications left behind: %v %v", apps, err)
	}
	for _, model := range []any{&models.Education{}, &models.Course{}} {
		var n int64
		d.db.Model(model).Where("pessoa_id = ?", p.ID).Count(&n)
		if n != 0 {
			t.Fatalf("%T rows left behind: %d", model, n)
		}
	}
	if total, _ := d.ApplicationRepo().Count(); total != 1 {
		t.Fatalf("other person's application should survive, count=%d", total)
	}

	if err := d.PersonRepo().Delete(p.ID); !errs.IsNotFound(err) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestApplicationSearch(t *testing.T) {
	d := setupTestDB(t)
	ana := addPerson(t, d, "Ana Souza", "ana@example.com")
	bruno := addPerson(t, d, "Bruno Lima", "bruno@honoriel.com.br")
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	addApplication(t, d, ana.ID, "Analista Financeiro", base, nil)
	addApplication(t, d, bruno.ID, "Desenvolvedor Go", base.Add(time.Hour), nil)
	addApplication(t, d, ana.ID, "Gerente de Projetos", base.Add(2*time.Hour), nil)

	all, err := d.ApplicationRepo().Search(ApplicationFilter{})
	if err != nil {
		t.Fatalf("search all: %v", err)
	}
	if len(all) != 3 || all[0].Objective != "Gerente de Projetos" || all[2].Objective != "Analista Financeiro" {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if all[0].Person == nil || all[0].Person.FullName != "Ana Souza" {
		t.Fatal("person should be preloaded")
	}

	byName, err := d.ApplicationRepo().Search(ApplicationFilter{By: SearchByPerson, Term: "SOUZA"})
	if err != nil || len(byName) != 2 {
		t.Fatalf("search by name: %d %v", len(byName), err)
	}
	byEmail, err := d.ApplicationRepo().Search(ApplicationFilter{By: SearchByPerson, Term: "honoriel.com"})
	if err != nil || len(byEmail) != 1 || byEmail[0].PersonID != bruno.ID {
		t.Fatalf("search by email: %+v %v", byEmail, err)
	}
	byObjective, err := d.ApplicationRepo().Search(ApplicationFilter{By: SearchByApplication, Term: "go"})
	if err != nil || len(byObjective) != 1 || byObjective[0].Objective != "Desenvolvedor Go" {
		t.Fatalf("search by objective: %+v %v", byObjective, err)
	}
}

func TestApplicationLatestForPerson(t *testing.T) {
	d := setupTestDB(t)
	p := addPerson(t, d, "Ana", "ana@example.com")

	none, err := d.ApplicationRepo().LatestForPerson(p.ID)
	if err != nil || none != nil {
		t.Fatalf("expected nil, nil, got %v %v", none, err)
	}

	base := time.Now().Add(-time.Hour)
	addApplication(t, d, p.ID, "Primeira", base, nil)
	addApplication(t, d, p.ID, "Segunda", base.Add(time.Minute), nil)

	latest, err := d.ApplicationRepo().LatestForPerson(p.ID)
	if err != nil || latest == nil || latest.Objective != "Segunda" {
		t.Fatalf("latest = %+v %v", latest, err)
	}
}

func TestApplicationDelete(t *testing.T) {
	d := setupTestDB(t)
	p := addPerson(t, d, "Ana", "ana@example.com")
	a := addApplication(t, d, p.ID, "Analista", time.Now(), nil)

	if err := d.ApplicationRepo().Delete(a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := d.ApplicationRepo().FindByID(a.ID); !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := d.ApplicationRepo().Delete(a.ID); !errs.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSpecialistOrderingAndUpdate(t *testing.T) {
	d := setupTestDB(t)
	repo := d.SpecialistRepo()
	for _, s := range []models.Specialist{
		{Name: "Carla", Title: "Psicóloga", Order: 2, Active: true, Area: "psicologia"},
		{Name: "Bruno", Title: "Advogado", Order: 1, Active: true, Area: "direito"},
		{Name: "Alice", Title: "Contadora", Order: 2, Active: false, Area: "contabilidade"},
	} {
		s := s
		if err := repo.Add(&s); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	all, err := repo.FindAll()
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	names := []string{all[0].Name, all[1].Name, all[2].Name}
	if strings.Join(names, ",") != "Bruno,Alice,Carla" {
		t.Fatalf("admin order = %v", names)
	}

	active, err := repo.FindActive()
	if err != nil || len(active) != 2 || active[0].Name != "Bruno" {
		t.Fatalf("active = %+v %v", active, err)
	}

	carla := all[2]
	carla.Active = false
	carla.BioItems = []string{"Ansiedade", "Carreira"}
	if err := repo.Update(&carla); err != nil {
		t.Fatalf("update: %v", err)
	}
	reloaded, err := repo.FindByID(carla.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Active || len(reloaded.BioItems) != 2 || reloaded.BioItems[1] != "Carreira" {
		t.Fatalf("update not persisted: %+v", reloaded)
	}
}

func TestSpecialistReadsLineSeparatedBioItems(t *testing.T) {
	d := setupTestDB(t)
	err := d.db.Exec("INSERT INTO especialista (nome, titulo, bio_lista_itens, ativo, ordem, area) VALUES (?, ?, ?, ?, ?, ?)",
		"Joana", "Nutricionista", "Item um\nItem dois\n\n", true, 0, "nutricao").Error
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	active, err := d.SpecialistRepo().FindActive()
	if err != nil || len(active) != 1 {
		t.Fatalf("active = %+v %v", active, err)
	}
	items := active[0].BioItems
	if len(items) != 2 || items[0] != "Item um" || items[1] != "Item dois" {
		t.Fatalf("BioItems = %q", items)
	}

	if err := d.SpecialistRepo().Update(&active[0]); err != nil {
		t.Fatalf("update: %v", err)
	}
	var stored string
	if err := d.db.Raw("SELECT bio_lista_itens FROM especialista WHERE id = ?", active[0].ID).Scan(&stored).Error; err != nil {
		t.Fatalf("select: %v", err)
	}
	if stored != "Item um\nItem dois" {
		t.Fatalf("stored = %q, want one item per line", stored)
	}
}

func TestBlogPostPaging(t *testing.T) {
	d := setupTestDB(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		post := &models.BlogPost{Title: "Post " + string(rune('A'+i)), Content: "conteúdo", PublishedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := d.BlogPostRepo().Add(post); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	page1, total, err := d.BlogPostRepo().Page(1, 6)
	if err != nil || total != 8 || len(page1) != 6 || page1[0].Title != "Post H" {
		t.Fatalf("page 1: %d posts, total %d, err %v", len(page1), total, err)
	}
	page2, _, err := d.BlogPostRepo().Page(2, 6)
	if err != nil || len(page2) != 2 || page2[1].Title != "Post A" {
		t.Fatalf("page 2: %+v %v", page2, err)
	}
	for _, page := range []int{3, math.MaxInt} {
		posts, total, err := d.BlogPostRepo().Page(page, 6)
		if err != nil || total != 8 || len(posts) != 0 {
			t.Fatalf("page %d: %d posts of %d (%v), want none of 8", page, len(posts), total, err)
		}
	}
	recent, err := d.BlogPostRepo().Recent(3)
	if err != nil || len(recent) != 3 || recent[2].Title != "Post F" {
		t.Fatalf("recent: %+v %v", recent, err)
	}
}

func TestBlogPostDefaultAuthor(t *testing.T) {
	d := setupTestDB(t)
	post := &models.BlogPost{Title: "Sem autor", Content: "x", PublishedAt: time.Now()}
	if err := d.BlogPostRepo().Add(post); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := d.BlogPostRepo().FindByID(post.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Author != models.DefaultPostAuthor {
		t.Fatalf("author = %q", got.Author)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	d := setupTestDB(t)
	boom := errors.New("boom")

	err := d.Transaction(context.Background(), func(tx Database) error {
		if err := tx.PersonRepo().Add(&models.Person{FullName: "Ana", Email: "ana@example.com"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n, _ := d.PersonRepo().Count(); n != 0 {
		t.Fatalf("rollback expected, found %d people", n)
	}
}

func TestUserRepo(t *testing.T) {
	d := setupTestDB(t)
	u := &models.User{Username: "admin", PasswordHash: "hash"}
	if err := d.UserRepo().Add(u); err != nil {
		t.Fatalf("add: %v", err)
	}
	found, err := d.UserRepo().FindByUsername("admin")
	if err != nil || found == nil || found.ID != u.ID {
		t.Fatalf("find by username: %v %v", found, err)
	}
	if missing, err := d.UserRepo().FindByUsername("ghost"); err != nil || missing != nil {
		t.Fatalf("unknown username: %v %v", missing, err)
	}
	if _, err := d.UserRepo().FindByID(999); !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
