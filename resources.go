package langsync

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Project is a translation project.
type Project struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DefaultLanguage string    `json:"defaultLanguage"`
	Languages       []string  `json:"languages"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Language is one target language of a project.
type Language struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Progress float64 `json:"progress"`
}

// Translation is a single translated key in one language.
type Translation struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Language  string    `json:"language"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Project fetches the client's project. Cached and de-duplicated.
func (c *Client) Project(ctx context.Context) (*Project, error) {
	desc := c.newDescriptor("project.get", http.MethodGet, c.projectPath(), nil, nil, true)
	res, err := c.exec.execute(ctx, desc)
	if err != nil {
		return nil, err
	}
	var p Project
	if err := res.decode(&p); err != nil {
		return nil, decodeError(err)
	}
	return &p, nil
}

// Languages lists the project's target languages. Cached and de-duplicated.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	desc := c.newDescriptor("languages.list", http.MethodGet, c.languagesPath(), nil, nil, true)
	res, err := c.exec.execute(ctx, desc)
	if err != nil {
		return nil, err
	}
	var langs []Language
	if err := res.decode(&langs); err != nil {
		return nil, decodeError(err)
	}
	return langs, nil
}

// Translations fetches every translation for one language. Cached and
// de-duplicated.
func (c *Client) Translations(ctx context.Context, lang string) ([]Translation, error) {
	desc := c.newDescriptor("translations.list", http.MethodGet, c.translationsPath(lang), nil, nil, true)
	res, err := c.exec.execute(ctx, desc)
	if err != nil {
		return nil, err
	}
	var ts []Translation
	if err := res.decode(&ts); err != nil {
		return nil, decodeError(err)
	}
	return ts, nil
}

// Translation fetches one translated key. Cached and de-duplicated.
func (c *Client) Translation(ctx context.Context, lang, key string) (*Translation, error) {
	desc := c.newDescriptor("translation.get", http.MethodGet, c.translationPath(lang, key), nil, nil, true)
	res, err := c.exec.execute(ctx, desc)
	if err != nil {
		return nil, err
	}
	var t Translation
	if err := res.decode(&t); err != nil {
		return nil, decodeError(err)
	}
	return &t, nil
}

type updateTranslationRequest struct {
	Value string `json:"value"`
}

// UpdateTranslation writes a new value for one key. Never cached, never
// coalesced; a success evicts the stale cached reads it invalidates.
func (c *Client) UpdateTranslation(ctx context.Context, lang, key, value string) (*Translation, error) {
	desc := c.newDescriptor("translation.update", http.MethodPut, c.translationPath(lang, key),
		nil, updateTranslationRequest{Value: value}, false)
	res, err := c.exec.execute(ctx, desc)
	if err != nil {
		return nil, err
	}
	var t Translation
	if err := res.decode(&t); err != nil {
		return nil, decodeError(err)
	}

	c.evictTranslationReads(lang, key)
	return &t, nil
}

type createLanguageRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateLanguage adds a target language to the project. Never cached, never
// coalesced.
func (c *Client) CreateLanguage(ctx context.Context, code, name string) (*Language, error) {
	desc := c.newDescriptor("language.create", http.MethodPost, c.languagesPath(),
		nil, createLanguageRequest{Code: code, Name: name}, false)
	res, err := c.exec.execute(ctx, desc)
	if err != nil {
		return nil, err
	}
	var l Language
	if err := res.decode(&l); err != nil {
		return nil, decodeError(err)
	}

	if c.cache != nil {
		c.cache.Delete(c.newDescriptor("languages.list", http.MethodGet, c.languagesPath(), nil, nil, true).Fingerprint())
		c.cache.Delete(c.newDescriptor("project.get", http.MethodGet, c.projectPath(), nil, nil, true).Fingerprint())
	}
	return &l, nil
}

// evictTranslationReads drops the cached reads a translation write made
// stale: the key itself and the language's listing.
func (c *Client) evictTranslationReads(lang, key string) {
	if c.cache == nil {
		return
	}
	c.cache.Delete(c.newDescriptor("translation.get", http.MethodGet, c.translationPath(lang, key), nil, nil, true).Fingerprint())
	c.cache.Delete(c.newDescriptor("translations.list", http.MethodGet, c.translationsPath(lang), nil, nil, true).Fingerprint())
}

func (c *Client) projectPath() string {
	return "/v1/projects/" + url.PathEscape(c.projectID)
}

func (c *Client) languagesPath() string {
	return c.projectPath() + "/languages"
}

func (c *Client) translationsPath(lang string) string {
	return c.languagesPath() + "/" + url.PathEscape(lang) + "/translations"
}

func (c *Client) translationPath(lang, key string) string {
	return c.translationsPath(lang) + "/" + url.PathEscape(key)
}

func decodeError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: "malformed response body", Cause: err}
}
