package util

import (
	"reflect"
	"testing"
)

func TestExtractImageRefs_SingleToken(t *testing.T) {
	clean, refs := ExtractImageRefs("Что изображено на рисунке? ![image](plot.png)")
	if clean != "Что изображено на рисунке?" {
		t.Errorf("clean = %q", clean)
	}
	if len(refs) != 1 || refs[0].Filename != "plot.png" {
		t.Errorf("refs = %v", refs)
	}
}

func TestExtractImageRefs_NoToken(t *testing.T) {
	clean, refs := ExtractImageRefs("Обычный текст без картинок")
	if clean != "Обычный текст без картинок" {
		t.Errorf("clean = %q", clean)
	}
	if refs != nil {
		t.Errorf("refs = %v, want nil", refs)
	}
}

func TestResolveImageURLs(t *testing.T) {
	clean, urls := ResolveImageURLs("![image](a.png) и ![image](b.jpg)", "http://10.0.0.1:8080/")
	if clean != "и" {
		t.Errorf("clean = %q", clean)
	}
	want := []string{
		"http://10.0.0.1:8080/images/a.png",
		"http://10.0.0.1:8080/images/b.jpg",
	}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("urls = %v, want %v", urls, want)
	}
}

func TestResolveImageURLs_EmptyListNotNil(t *testing.T) {
	_, urls := ResolveImageURLs("текст", "http://localhost:8080")
	if urls == nil {
		t.Error("urls must be an empty slice, not nil, for JSON encoding")
	}
}
