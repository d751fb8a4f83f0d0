package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Shobuki/gfchristmastwebsite/auth"
	"github.com/Shobuki/gfchristmastwebsite/config"
	"github.com/Shobuki/gfchristmastwebsite/database"
	"github.com/Shobuki/gfchristmastwebsite/handlers"
	"github.com/Shobuki/gfchristmastwebsite/media"
	"github.com/Shobuki/gfchristmastwebsite/models"
	"github.com/Shobuki/gfchristmastwebsite/repository"
)

const (
	testPublicToken = "public-test-token"
	testUsername    = "ivan"
	testPassword    = "correct horse battery"
)

type testEnv struct {
	server   *httptest.Server
	admin    *models.Admin
	token    string
	pictures repository.PictureRepository
	gacha    repository.GachaRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.InitGormDB(dsn)
	if err != nil {
		t.Fatalf("failed to init in-memory db: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	storageDir := t.TempDir()
	store, err := media.NewLocalStorage(storageDir, map[media.AssetType]string{
		media.AssetTypePicture:   config.DefaultPicturesSubDir,
		media.AssetTypeJourney:   config.DefaultJourneySubDir,
		media.AssetTypeThumbnail: config.DefaultThumbnailsSubDir,
	})
	if err != nil {
		t.Fatalf("failed to init media store: %v", err)
	}

	cfg := config.Config{
		DatabasePath:     dsn,
		StorageDir:       storageDir,
		PicturesPath:     filepath.Join(storageDir, config.DefaultPicturesSubDir),
		JourneyPath:      filepath.Join(storageDir, config.DefaultJourneySubDir),
		ThumbnailsPath:   filepath.Join(storageDir, config.DefaultThumbnailsSubDir),
		PublicToken:      testPublicToken,
		SessionDays:      30,
		ThumbnailMaxSize: 120,
		UploadMaxBytes:   25 << 20,
		StartingCoins:    5,
	}

	adminRepo := repository.NewGormAdminRepository(db)
	sessionRepo := repository.NewGormSessionRepository(db)
	pictureRepo := repository.NewGormPictureRepository(db)
	gachaRepo := repository.NewGormGachaRepository(db)
	journeyRepo := repository.NewGormJourneyRepository(db)
	settingsRepo := repository.NewGormSettingsRepository(db)

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	admin := &models.Admin{Username: testUsername, PasswordHash: hash}
	if err := adminRepo.Create(admin); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	r := chi.NewRouter()
	handlers.Register(r, handlers.Deps{
		Cfg:      cfg,
		Admins:   adminRepo,
		Sessions: sessionRepo,
		Pictures: pictureRepo,
		Gacha:    gachaRepo,
		Journey:  journeyRepo,
		Settings: settingsRepo,
		Store:    store,
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	env := &testEnv{server: server, admin: admin, pictures: pictureRepo, gacha: gachaRepo}
	env.token = env.login(t, testUsername, testPassword)
	return env
}

// login performs a real login through the API and returns the session token.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	status, body := e.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login failed with status %d: %v", status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login response has no token")
	}
	return token
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("response is not JSON (%d): %s", resp.StatusCode, raw)
		}
	}
	return resp.StatusCode, body
}

func firstError(body map[string]interface{}) map[string]interface{} {
	list, _ := body["errors"].([]interface{})
	if len(list) == 0 {
		return nil
	}
	item, _ := list[0].(map[string]interface{})
	return item
}

func firstErrorCode(body map[string]interface{}) string {
	code, _ := firstError(body)["code"].(string)
	return code
}

func firstErrorDetail(body map[string]interface{}) string {
	detail, _ := firstError(body)["detail"].(string)
	return detail
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": testUsername,
		"password": testPassword,
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d, want 200", status)
	}
	token, _ := body["token"].(string)
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(token))
	}
	if body["username"] != testUsername {
		t.Errorf("username = %v, want %q", body["username"], testUsername)
	}
	if body["expiresAt"] == nil {
		t.Error("expiresAt missing from login response")
	}

	// wrong password and unknown user get the same response
	for _, creds := range []map[string]string{
		{"username": testUsername, "password": "wrong"},
		{"username": "nobody", "password": testPassword},
	} {
		status, body := env.doJSON(t, http.MethodPost, "/api/auth/login", "", creds)
		if status != http.StatusUnauthorized {
			t.Errorf("login with %v: status = %d, want 401", creds, status)
		}
		if code := firstErrorCode(body); code != "invalid_credentials" {
			t.Errorf("login with %v: error code = %q, want invalid_credentials", creds, code)
		}
	}
}

func TestAuthGate(t *testing.T) {
	env := newTestEnv(t)

	// no token at all
	if status, _ := env.doJSON(t, http.MethodGet, "/api/gacha-state", "", nil); status != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", status)
	}
	// garbage token
	if status, _ := env.doJSON(t, http.MethodGet, "/api/gacha-state", "not-a-real-token", nil); status != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", status)
	}
	// the shared public token opens viewer routes
	if status, _ := env.doJSON(t, http.MethodGet, "/api/gacha-state", testPublicToken, nil); status != http.StatusOK {
		t.Errorf("public token on viewer route: status = %d, want 200", status)
	}
	// but not admin routes
	payload := map[string]interface{}{"rarity": "rare", "title": "T", "caption": "C"}
	if status, _ := env.doJSON(t, http.MethodPost, "/api/gacha-items", testPublicToken, payload); status != http.StatusUnauthorized {
		t.Errorf("public token on admin route: status = %d, want 401", status)
	}
	// an admin session opens both
	if status, _ := env.doJSON(t, http.MethodPost, "/api/gacha-items", env.token, payload); status != http.StatusOK {
		t.Errorf("admin token on admin route: status = %d, want 200", status)
	}

	// query-parameter fallback for contexts that cannot set headers
	resp, err := http.Get(env.server.URL + "/api/gacha-state?token=" + testPublicToken)
	if err != nil {
		t.Fatalf("query token request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("query token fallback: status = %d, want 200", resp.StatusCode)
	}
}

func TestGachaStateCoins(t *testing.T) {
	env := newTestEnv(t)

	// first read seeds the default balance
	status, body := env.doJSON(t, http.MethodGet, "/api/gacha-state", env.token, nil)
	if status != http.StatusOK {
		t.Fatalf("get state: status = %d", status)
	}
	if coins := body["coins"].(float64); coins != 5 {
		t.Errorf("initial coins = %v, want 5", coins)
	}

	// authoritative delta returns the post-update balance
	delta := -1
	status, body = env.doJSON(t, http.MethodPost, "/api/gacha-state", env.token, map[string]interface{}{"delta": delta})
	if status != http.StatusOK {
		t.Fatalf("delta update: status = %d", status)
	}
	if coins := body["coins"].(float64); coins != 4 {
		t.Errorf("coins after -1 = %v, want 4", coins)
	}

	// an oversized spend clamps at zero instead of going negative
	delta = -100
	_, body = env.doJSON(t, http.MethodPost, "/api/gacha-state", env.token, map[string]interface{}{"delta": delta})
	if coins := body["coins"].(float64); coins != 0 {
		t.Errorf("coins after -100 = %v, want 0", coins)
	}

	// absolute set
	_, body = env.doJSON(t, http.MethodPost, "/api/gacha-state", env.token, map[string]interface{}{"coins": 7})
	if coins := body["coins"].(float64); coins != 7 {
		t.Errorf("coins after set = %v, want 7", coins)
	}

	// neither field is a validation error
	if status, _ := env.doJSON(t, http.MethodPost, "/api/gacha-state", env.token, map[string]interface{}{}); status != http.StatusBadRequest {
		t.Errorf("empty state payload: status = %d, want 400", status)
	}

	// the public principal shares the first admin's balance
	_, body = env.doJSON(t, http.MethodGet, "/api/gacha-state", testPublicToken, nil)
	if coins := body["coins"].(float64); coins != 7 {
		t.Errorf("public principal coins = %v, want 7", coins)
	}
}

func TestAssignPicture(t *testing.T) {
	env := newTestEnv(t)

	itemA := &models.GachaItem{Rarity: models.RarityRare, Title: "A", Caption: "a"}
	itemB := &models.GachaItem{Rarity: models.RarityRare, Title: "B", Caption: "b"}
	for _, item := range []*models.GachaItem{itemA, itemB} {
		if err := env.gacha.CreateItem(item); err != nil {
			t.Fatal(err)
		}
	}
	loaded := &models.Picture{Filename: "a.jpg", StoredPath: "/tmp/a.jpg", Source: models.SourceManualUpload, GachaID: &itemA.ID}
	unassigned := &models.Picture{Filename: "b.jpg", StoredPath: "/tmp/b.jpg", Source: models.SourceManualUpload}
	for _, pic := range []*models.Picture{loaded, unassigned} {
		if err := env.pictures.Create(pic); err != nil {
			t.Fatal(err)
		}
	}

	// rarity-based assignment picks the item with fewer pictures
	status, body := env.doJSON(t, http.MethodPost, "/api/pictures/assign", env.token, map[string]interface{}{
		"id": unassigned.ID, "rarity": "rare",
	})
	if status != http.StatusOK {
		t.Fatalf("assign by rarity: status = %d: %v", status, body)
	}
	if got := uint(body["gachaId"].(float64)); got != itemB.ID {
		t.Errorf("assigned to item %d, want least-loaded item %d", got, itemB.ID)
	}

	// direct assignment overrides the balancer
	status, body = env.doJSON(t, http.MethodPost, "/api/pictures/assign", env.token, map[string]interface{}{
		"id": unassigned.ID, "gachaId": itemA.ID,
	})
	if status != http.StatusOK {
		t.Fatalf("assign by id: status = %d: %v", status, body)
	}
	if got := uint(body["gachaId"].(float64)); got != itemA.ID {
		t.Errorf("assigned to item %d, want %d", got, itemA.ID)
	}

	// a rarity with no items is a client error, not a 500
	status, body = env.doJSON(t, http.MethodPost, "/api/pictures/assign", env.token, map[string]interface{}{
		"id": unassigned.ID, "rarity": "mythic",
	})
	if status != http.StatusBadRequest {
		t.Errorf("assign to empty rarity: status = %d, want 400", status)
	}
	if detail := firstErrorDetail(body); !strings.Contains(detail, "no gacha items") {
		t.Errorf("assign to empty rarity: detail = %q", detail)
	}

	// viewers cannot assign
	if status, _ := env.doJSON(t, http.MethodPost, "/api/pictures/assign", testPublicToken, map[string]interface{}{
		"id": unassigned.ID, "rarity": "rare",
	}); status != http.StatusUnauthorized {
		t.Errorf("assign with public token: status = %d, want 401", status)
	}
}

func uploadPicture(t *testing.T, env *testEnv, filename, source string, data []byte) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to build multipart form: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("failed to write file part: %v", err)
	}
	if source != "" {
		if err := mw.WriteField("source", source); err != nil {
			t.Fatalf("failed to write source field: %v", err)
		}
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/pictures", &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestPictureUploadAndList(t *testing.T) {
	env := newTestEnv(t)

	status, body := uploadPicture(t, env, "date-night.txt", "", []byte("not really an image"))
	if status != http.StatusOK {
		t.Fatalf("upload: status = %d: %v", status, body)
	}
	if body["id"] == nil {
		t.Fatal("upload response has no id")
	}
	if url, _ := body["url"].(string); !strings.Contains(url, "token="+testPublicToken) {
		t.Errorf("upload url %q does not carry the public token", url)
	}

	// explicit source field wins
	if _, body := uploadPicture(t, env, "booth.txt", "auto-capture", []byte("x")); body["id"] == nil {
		t.Fatal("auto-capture upload failed")
	}
	// capture- filename prefix implies auto-capture
	if _, body := uploadPicture(t, env, "capture-17001.txt", "", []byte("x")); body["id"] == nil {
		t.Fatal("capture-prefixed upload failed")
	}

	status, body = env.doJSON(t, http.MethodGet, "/api/pictures", testPublicToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list: status = %d", status)
	}
	items, _ := body["items"].([]interface{})
	if len(items) != 3 {
		t.Fatalf("listed %d pictures, want 3", len(items))
	}
	sources := map[string]string{}
	for _, raw := range items {
		item := raw.(map[string]interface{})
		name, _ := item["originalName"].(string)
		sources[name], _ = item["source"].(string)
	}
	if sources["date-night.txt"] != string(models.SourceManualUpload) {
		t.Errorf("date-night.txt source = %q, want manual-upload", sources["date-night.txt"])
	}
	if sources["booth.txt"] != string(models.SourceAutoCapture) {
		t.Errorf("booth.txt source = %q, want auto-capture", sources["booth.txt"])
	}
	if sources["capture-17001.txt"] != string(models.SourceAutoCapture) {
		t.Errorf("capture-17001.txt source = %q, want auto-capture", sources["capture-17001.txt"])
	}
}

// saveJourney posts the journey multipart form; data == nil omits the file part.
func saveJourney(t *testing.T, env *testEnv, fields map[string]string, filename string, data []byte) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	if data != nil {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("failed to build multipart form: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("failed to write file part: %v", err)
		}
	}
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/journey", &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("journey save failed: %v", err)
	}
	defer resp.Body.Close()
	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func listJourney(t *testing.T, env *testEnv) []map[string]interface{} {
	t.Helper()
	status, body := env.doJSON(t, http.MethodGet, "/api/journey", testPublicToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list journey: status = %d", status)
	}
	raw, _ := body["items"].([]interface{})
	items := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		item, _ := entry.(map[string]interface{})
		items = append(items, item)
	}
	return items
}

func TestJourneyLifecycle(t *testing.T) {
	env := newTestEnv(t)
	imageBytes := []byte("pretend this is a beach photo")

	status, body := saveJourney(t, env, map[string]string{
		"title": "Beach day", "caption": "so much sand", "category": "sweet",
	}, "beach.jpg", imageBytes)
	if status != http.StatusOK {
		t.Fatalf("create journey item: status = %d: %v", status, body)
	}
	id := uint(body["id"].(float64))

	items := listJourney(t, env)
	if len(items) != 1 {
		t.Fatalf("listed %d journey items, want 1", len(items))
	}
	fileURL, _ := items[0]["url"].(string)
	if fileURL == "" {
		t.Fatal("created journey item has no file url")
	}
	if !strings.Contains(fileURL, "token="+testPublicToken) {
		t.Errorf("journey url %q does not carry the public token", fileURL)
	}

	// update without a file keeps the previously stored one
	status, body = saveJourney(t, env, map[string]string{
		"id": fmt.Sprint(id), "title": "Beach day, renamed", "caption": "still sandy", "category": "funny",
	}, "", nil)
	if status != http.StatusOK {
		t.Fatalf("update journey item: status = %d: %v", status, body)
	}
	items = listJourney(t, env)
	if items[0]["title"] != "Beach day, renamed" || items[0]["category"] != "funny" {
		t.Errorf("text fields not updated: %v", items[0])
	}
	if updatedURL, _ := items[0]["url"].(string); updatedURL != fileURL {
		t.Errorf("file url changed on file-less update: %q -> %q", fileURL, updatedURL)
	}
	resp, err := http.Get(env.server.URL + fmt.Sprintf("/api/journey/files/%d?token=%s", id, testPublicToken))
	if err != nil {
		t.Fatalf("fetch journey file: %v", err)
	}
	served, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !bytes.Equal(served, imageBytes) {
		t.Errorf("journey file after update: status %d, %d bytes, want the original upload", resp.StatusCode, len(served))
	}

	// update with a new file replaces it
	replacement := []byte("a different photo")
	if status, body := saveJourney(t, env, map[string]string{
		"id": fmt.Sprint(id), "title": "Beach day, renamed", "caption": "still sandy", "category": "funny",
	}, "beach2.jpg", replacement); status != http.StatusOK {
		t.Fatalf("update with new file: status = %d: %v", status, body)
	}
	resp, err = http.Get(env.server.URL + fmt.Sprintf("/api/journey/files/%d?token=%s", id, testPublicToken))
	if err != nil {
		t.Fatalf("fetch replaced journey file: %v", err)
	}
	served, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !bytes.Equal(served, replacement) {
		t.Errorf("journey file not replaced: got %d bytes", len(served))
	}

	status, _ = env.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/journey?id=%d", id), env.token, nil)
	if status != http.StatusOK {
		t.Fatalf("delete journey item: status = %d", status)
	}
	if items := listJourney(t, env); len(items) != 0 {
		t.Errorf("listed %d journey items after delete, want 0", len(items))
	}
	resp, err = http.Get(env.server.URL + fmt.Sprintf("/api/journey/files/%d?token=%s", id, testPublicToken))
	if err != nil {
		t.Fatalf("fetch deleted journey file: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted journey file: status = %d, want 404", resp.StatusCode)
	}
}

func TestJourneyValidation(t *testing.T) {
	env := newTestEnv(t)

	// only sweet and funny exist
	if status, _ := saveJourney(t, env, map[string]string{
		"title": "t", "caption": "c", "category": "spicy",
	}, "", nil); status != http.StatusBadRequest {
		t.Errorf("invalid category: status = %d, want 400", status)
	}
	// required text fields, whitespace does not count
	if status, _ := saveJourney(t, env, map[string]string{
		"title": "  ", "caption": "c", "category": "sweet",
	}, "", nil); status != http.StatusBadRequest {
		t.Errorf("blank title: status = %d, want 400", status)
	}
	// unknown id on update
	if status, _ := saveJourney(t, env, map[string]string{
		"id": "9999", "title": "t", "caption": "c", "category": "sweet",
	}, "", nil); status != http.StatusNotFound {
		t.Errorf("update of missing item: status = %d, want 404", status)
	}
	// a file-less create is fine; the item just has no url
	status, body := saveJourney(t, env, map[string]string{
		"title": "Words only", "caption": "no photo yet", "category": "sweet",
	}, "", nil)
	if status != http.StatusOK {
		t.Fatalf("file-less create: status = %d: %v", status, body)
	}
	items := listJourney(t, env)
	if len(items) != 1 || items[0]["url"] != nil {
		t.Errorf("file-less item should list with a null url: %v", items)
	}
}

func TestGachaResultsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	item := &models.GachaItem{Rarity: models.RarityCommon, Title: "Us", Caption: "first date"}
	if err := env.gacha.CreateItem(item); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		status, _ := env.doJSON(t, http.MethodPost, "/api/gacha-results", env.token, map[string]interface{}{
			"gachaItemId": item.ID,
		})
		if status != http.StatusOK {
			t.Fatalf("record result attempt %d: status = %d", i, status)
		}
	}

	_, body := env.doJSON(t, http.MethodGet, "/api/gacha-results", env.token, nil)
	ids, _ := body["items"].([]interface{})
	if len(ids) != 1 {
		t.Errorf("recorded %d results after duplicate pull, want 1", len(ids))
	}
}

func TestSettingsSingletons(t *testing.T) {
	env := newTestEnv(t)

	// migration seeds the singleton rows
	status, body := env.doJSON(t, http.MethodGet, "/api/layout", testPublicToken, nil)
	if status != http.StatusOK {
		t.Fatalf("get layout: status = %d", status)
	}
	if body["item"] == nil {
		t.Fatal("layout singleton missing after migration")
	}

	status, _ = env.doJSON(t, http.MethodPost, "/api/layout", env.token, map[string]interface{}{
		"journeyColumns": 4, "gachaColumns": 2,
	})
	if status != http.StatusOK {
		t.Fatalf("update layout: status = %d", status)
	}
	_, body = env.doJSON(t, http.MethodGet, "/api/layout", testPublicToken, nil)
	item, _ := body["item"].(map[string]interface{})
	if item["journeyColumns"].(float64) != 4 || item["gachaColumns"].(float64) != 2 {
		t.Errorf("layout after update = %v", item)
	}

	// zero columns are rejected
	if status, _ := env.doJSON(t, http.MethodPost, "/api/layout", env.token, map[string]interface{}{
		"journeyColumns": 0, "gachaColumns": 2,
	}); status != http.StatusBadRequest {
		t.Errorf("zero columns: status = %d, want 400", status)
	}

	// letter update round-trips including the optional voucher
	status, _ = env.doJSON(t, http.MethodPost, "/api/letter", env.token, map[string]interface{}{
		"title": "Dear you", "body1": "b1", "body2": "b2",
		"voucher": "one free hug", "buttonText": "open", "footer": "always",
	})
	if status != http.StatusOK {
		t.Fatalf("update letter: status = %d", status)
	}
	_, body = env.doJSON(t, http.MethodGet, "/api/letter", testPublicToken, nil)
	item, _ = body["item"].(map[string]interface{})
	if item["voucher"] != "one free hug" {
		t.Errorf("letter voucher = %v", item["voucher"])
	}
}

func TestLoveRadarValidation(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.doJSON(t, http.MethodPost, "/api/love-radar", testPublicToken, map[string]interface{}{
		"targetLat": -6.2, "targetLng": 106.8, "userLat": -6.3, "userLng": 106.9,
		"distanceM": 12000.0, "status": "ok",
	})
	if status != http.StatusOK {
		t.Errorf("valid love-radar log: status = %d, want 200", status)
	}

	status, _ = env.doJSON(t, http.MethodPost, "/api/love-radar", testPublicToken, map[string]interface{}{
		"targetLng": 106.8, "status": "ok",
	})
	if status != http.StatusBadRequest {
		t.Errorf("missing targetLat: status = %d, want 400", status)
	}
}

func TestAdminLifecycle(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.doJSON(t, http.MethodPost, "/api/admins", env.token, map[string]string{
		"username": "partner", "password": "their secret",
	})
	if status != http.StatusOK {
		t.Fatalf("create admin: status = %d: %v", status, body)
	}

	// the new admin can log in
	partnerToken := env.login(t, "partner", "their secret")

	// duplicate usernames are a client error
	if status, _ := env.doJSON(t, http.MethodPost, "/api/admins", env.token, map[string]string{
		"username": "partner", "password": "whatever",
	}); status != http.StatusBadRequest {
		t.Errorf("duplicate admin: status = %d, want 400", status)
	}

	_, body = env.doJSON(t, http.MethodGet, "/api/admins", env.token, nil)
	items, _ := body["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("listed %d admins, want 2", len(items))
	}
	var partnerID uint
	for _, raw := range items {
		item := raw.(map[string]interface{})
		if item["username"] == "partner" {
			partnerID = uint(item["id"].(float64))
		}
		if _, leaked := item["passwordHash"]; leaked {
			t.Error("admin listing leaks password hashes")
		}
	}

	status, _ = env.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/admins?id=%d", partnerID), env.token, nil)
	if status != http.StatusOK {
		t.Fatalf("delete admin: status = %d", status)
	}

	// deleting the admin kills its sessions too
	if status, _ := env.doJSON(t, http.MethodGet, "/api/admins", partnerToken, nil); status != http.StatusUnauthorized {
		t.Errorf("deleted admin's session still works: status = %d, want 401", status)
	}
}
