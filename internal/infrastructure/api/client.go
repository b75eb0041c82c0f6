package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout timeout fijo por petición.
	DefaultTimeout = 10 * time.Second
	// DefaultLoginRoute ruta a la que se redirige tras un 401.
	DefaultLoginRoute = "/login"

	// HeaderRequestID cabecera de correlación enviada en cada petición.
	HeaderRequestID = "X-Request-ID"

	contentTypeJSON  = "application/json"
	maxResponseBytes = 64 << 20
)

// Session almacenamiento persistente del token de autenticación.
// El token se lee al enviar cada petición; Clear se invoca ante un 401.
type Session interface {
	Token(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Navigator realiza la navegación del cliente hacia una ruta (ej. la de login).
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// NavigatorFunc adapta una función a Navigator.
type NavigatorFunc func(ctx context.Context, route string)

func (f NavigatorFunc) Navigate(ctx context.Context, route string) { f(ctx, route) }

// Options configuración del transporte.
type Options struct {
	BaseURL    string
	Timeout    time.Duration // 0 = DefaultTimeout
	LoginRoute string        // vacío = DefaultLoginRoute
	HTTPClient *http.Client  // opcional; si es nil se crea uno con Timeout
	Logger     *zerolog.Logger
}

// Client único punto de salida HTTP hacia el backend Fenix.
// No reintenta: cada llamada es independiente y sus errores se propagan tal cual.
type Client struct {
	baseURL    string
	loginRoute string
	httpClient *http.Client
	session    Session
	nav        Navigator
	log        zerolog.Logger
}

// NewClient construye el transporte. session y nav pueden ser nil
// (peticiones sin autenticar, sin redirección).
func NewClient(opts Options, session Session, nav Navigator) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	route := opts.LoginRoute
	if route == "" {
		route = DefaultLoginRoute
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Client{
		baseURL:    opts.BaseURL,
		loginRoute: route,
		httpClient: hc,
		session:    session,
		nav:        nav,
		log:        log,
	}
}

// Session devuelve el almacenamiento de token inyectado (puede ser nil).
func (c *Client) Session() Session { return c.session }

// Request descripción de una llamada a la API.
type Request struct {
	Method  string
	Path    string // relativo a BaseURL, ej. "/products/"
	Query   Params
	Payload Payload // nil = sin cuerpo
	Binary  bool    // respuesta binaria (CSV, PDF): no se interpreta como JSON
}

// Response respuesta 2xx sin procesar; el llamador decide cómo decodificar Body.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Do envía la petición. Los fallos son siempre *ConfigError, *NetworkError o *ResponseError.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	c.authorize(ctx, req)

	reqID := req.Header.Get(HeaderRequestID)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("request_id", reqID).Str("method", r.Method).Str("path", r.Path).
			Msg("api: sin respuesta")
		return nil, &NetworkError{Method: r.Method, URL: req.URL.Redacted(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &NetworkError{Method: r.Method, URL: req.URL.Redacted(), Err: fmt.Errorf("leer respuesta: %w", err)}
	}

	c.log.Debug().
		Str("request_id", reqID).
		Str("method", r.Method).
		Str("path", r.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api: respuesta")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.onUnauthorized(ctx)
		}
		return nil, &ResponseError{
			Method: r.Method,
			URL:    req.URL.Redacted(),
			Status: resp.StatusCode,
			Header: resp.Header,
			Body:   body,
		}
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	u, err := c.resolve(r.Path)
	if err != nil {
		return nil, &ConfigError{Op: "construir URL", Err: err}
	}
	if len(r.Query) > 0 {
		u.RawQuery = r.Query.Values().Encode()
	}

	var body io.Reader
	contentType := contentTypeJSON
	if r.Payload != nil {
		raw, ct, err := r.Payload.Encode()
		if err != nil {
			return nil, &ConfigError{Op: "codificar payload", Err: err}
		}
		body = bytes.NewReader(raw)
		contentType = ct
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &ConfigError{Op: "crear request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	if r.Binary {
		req.Header.Set("Accept", "*/*")
	} else {
		req.Header.Set("Accept", contentTypeJSON)
	}
	req.Header.Set(HeaderRequestID, uuid.NewString())
	return req, nil
}

// resolve une BaseURL y path respetando el prefijo de la base (ej. /api).
func (c *Client) resolve(path string) (*url.URL, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("URL base vacía")
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("URL base inválida: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("esquema no soportado %q", base.Scheme)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("URL base sin host")
	}
	rel, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return nil, fmt.Errorf("path inválido %q: %w", path, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(rel), nil
}

// authorize adjunta el token Bearer si la sesión tiene uno. Si la sesión no se puede leer
// la petición sale sin autenticar.
func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.session == nil {
		return
	}
	token, err := c.session.Token(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("api: no se pudo leer el token de sesión")
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// onUnauthorized borra el token persistido y redirige al login. El error se sigue propagando.
func (c *Client) onUnauthorized(ctx context.Context) {
	if c.session != nil {
		if err := c.session.Clear(ctx); err != nil {
			c.log.Error().Err(err).Msg("api: no se pudo borrar el token tras 401")
		} else {
			c.log.Warn().Msg("api: 401 recibido, sesión cerrada")
		}
	}
	if c.nav != nil {
		c.nav.Navigate(ctx, c.loginRoute)
	}
}
