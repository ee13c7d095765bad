package util

import (
	"regexp"
	"strings"
)

// Токен вида ![image](filename), встраиваемый в тексты вопросов и ответов.
var imageRefPattern = regexp.MustCompile(`!\[image\]\((.*?)\)`)

// ImageRef — одна ссылка на изображение, извлеченная из текста.
type ImageRef struct {
	Filename string
}

// ExtractImageRefs вырезает из текста все токены изображений и возвращает
// очищенный текст вместе со списком ссылок в порядке появления.
func ExtractImageRefs(text string) (string, []ImageRef) {
	matches := imageRefPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text, nil
	}
	refs := make([]ImageRef, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, ImageRef{Filename: m[1]})
	}
	clean := strings.TrimSpace(imageRefPattern.ReplaceAllString(text, ""))
	return clean, refs
}

// ResolveImageURLs извлекает ссылки и достраивает их до полных URL вида
// <baseURL>/images/<filename>.
func ResolveImageURLs(text, baseURL string) (string, []string) {
	clean, refs := ExtractImageRefs(text)
	if len(refs) == 0 {
		return clean, []string{}
	}
	urls := make([]string, 0, len(refs))
	base := strings.TrimRight(baseURL, "/")
	for _, ref := range refs {
		urls = append(urls, base+"/images/"+ref.Filename)
	}
	return clean, urls
}
