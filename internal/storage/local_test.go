package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return s, dir
}

func TestSave(t *testing.T) {
	s, dir := newTestStorage(t)

	content := []byte("%PDF-1.4 содержимое")
	path, size, err := s.Save(bytes.NewReader(content), "лекция.pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len(content)) {
		t.Errorf("ожидался размер %d, получен %d", len(content), size)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("файл сохранён вне директории хранилища: %s", path)
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Errorf("расширение исходного файла должно сохраняться: %s", path)
	}
	if filepath.Base(path) == "лекция.pdf" {
		t.Error("имя на диске не должно совпадать с именем клиента")
	}

	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("чтение сохранённого файла: %v", err)
	}
	if !bytes.Equal(saved, content) {
		t.Error("содержимое файла искажено при сохранении")
	}
}

func TestSave_UniqueNames(t *testing.T) {
	s, _ := newTestStorage(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		path, _, err := s.Save(bytes.NewReader([]byte("x")), "same.pdf")
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if seen[path] {
			t.Fatalf("повторное имя файла: %s", path)
		}
		seen[path] = true
	}
}

func TestOpenAndRemove(t *testing.T) {
	s, _ := newTestStorage(t)

	path, _, err := s.Save(bytes.NewReader([]byte("данные")), "a.pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	f, err := s.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.Close()

	if err := s.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("файл должен быть удалён")
	}

	// повторное удаление не считается ошибкой
	if err := s.Remove(path); err != nil {
		t.Errorf("Remove по отсутствующему пути: %v", err)
	}
}
