// Package sandbox implementa en local el contrato REST del backend Fenix
// (colecciones, filtros, escritura anidada de pedidos, usuarias con baja lógica).
package sandbox

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fenix-admin/internal/application/validation"
	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
	"github.com/jhoicas/fenix-admin/internal/domain/repository"
)

// Query parámetros de un listado (?search=...&ordering=...).
type Query map[string]string

// ListResult página de un listado. En colecciones no paginadas Items trae todo.
type ListResult struct {
	Items       []entity.Record
	Count       int
	Page        int
	Paginated   bool
	HasNext     bool
	HasPrevious bool
}

// Service casos de uso del sandbox sobre un RecordRepository.
type Service struct {
	repo     repository.RecordRepository
	tx       TxRunner
	validate *validatorv10.Validate
	now      func() time.Time
	log      zerolog.Logger
	mu       sync.Mutex // serializa escrituras (unicidad, pedidos con líneas)
}

// NewService construye el servicio.
func NewService(repo repository.RecordRepository, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		tx:       directRunner{repo: repo},
		validate: validation.New(),
		now:      func() time.Time { return time.Now().UTC() },
		log:      log,
	}
}

// WithTxRunner escrituras de pedidos (con sus líneas) dentro de transacciones de tx.
func (s *Service) WithTxRunner(tx TxRunner) *Service {
	s.tx = tx
	return s
}

// inTx ejecuta fn con un Service atado al repositorio de la transacción.
func (s *Service) inTx(ctx context.Context, fn func(tx *Service) error) error {
	return s.tx.Run(ctx, func(repo repository.RecordRepository) error {
		return fn(&Service{
			repo:     repo,
			tx:       directRunner{repo: repo},
			validate: s.validate,
			now:      s.now,
			log:      s.log,
		})
	})
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func lookup(resource string) (*schema, error) {
	sc, ok := schemas[resource]
	if !ok {
		return nil, fmt.Errorf("colección %q: %w", resource, domain.ErrNotFound)
	}
	return sc, nil
}

func (s *Service) timestamp() string {
	return s.now().Format(timestampLayout)
}

// List aplica filtros, búsqueda, orden y paginación.
func (s *Service) List(ctx context.Context, resource string, q Query) (*ListResult, error) {
	sc, err := lookup(resource)
	if err != nil {
		return nil, err
	}
	all, err := s.repo.List(ctx, resource)
	if err != nil {
		return nil, err
	}

	rendered := make([]entity.Record, 0, len(all))
	for _, rec := range all {
		out, err := s.render(ctx, sc, rec)
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, out)
	}

	filtered, err := s.filter(sc, rendered, q)
	if err != nil {
		return nil, err
	}
	sortRecords(filtered, orderKeys(sc, q["ordering"]))

	res := &ListResult{Count: len(filtered), Paginated: sc.paginated, Page: 1}
	if !sc.paginated {
		res.Items = filtered
		return res, nil
	}
	page := 1
	if p := q["page"]; p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("página inválida: %w", domain.ErrNotFound)
		}
		page = n
	}
	// la página 1 existe aunque la colección esté vacía
	pages := (len(filtered) + PageSize - 1) / PageSize
	if page > 1 && page > pages {
		return nil, fmt.Errorf("página inválida: %w", domain.ErrNotFound)
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	res.Items = filtered[start:end]
	res.Page = page
	res.HasPrevious = page > 1
	res.HasNext = end < len(filtered)
	return res, nil
}

func (s *Service) filter(sc *schema, recs []entity.Record, q Query) ([]entity.Record, error) {
	search := strings.ToLower(strings.TrimSpace(q["search"]))
	showAll := strings.EqualFold(q["show_all"], "true")
	errs := newValidationError()

	type bound struct {
		rangeFilter
		value string
	}
	var bounds []bound
	for _, rf := range sc.ranges {
		if v := strings.TrimSpace(q[rf.param]); v != "" {
			bounds = append(bounds, bound{rf, v})
		}
	}

	out := make([]entity.Record, 0, len(recs))
next:
	for _, rec := range recs {
		if sc.resource == StaffUsers && !showAll && rec["is_active"] != true {
			continue
		}
		if search != "" && !matchesSearch(rec, sc.search, search) {
			continue
		}
		for _, name := range sc.exact {
			param, ok := q[name]
			if !ok || param == "" {
				continue
			}
			f, _ := sc.field(name)
			if !matchesExact(f, rec[name], param) {
				continue next
			}
		}
		for _, b := range bounds {
			stored := rec[b.field]
			if stored == nil {
				continue next
			}
			var cmp int
			if _, isNum := numeric(stored); isNum && !isDateLike(b.value) {
				limit, ok := toDecimal(b.value)
				if !ok {
					errs.Fields[b.param] = []string{"Introduzca un número."}
					continue
				}
				d, _ := numeric(stored)
				cmp = d.Cmp(limit)
			} else {
				cmp = strings.Compare(toString(stored), b.value)
			}
			if (b.min && cmp < 0) || (!b.min && cmp > 0) {
				continue next
			}
		}
		out = append(out, rec)
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func isDateLike(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func matchesSearch(rec entity.Record, fields []string, term string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(toString(rec[f])), term) {
			return true
		}
	}
	return false
}

func matchesExact(f field, stored any, param string) bool {
	switch f.kind {
	case kindInt, kindRef:
		n, ok := toInt(param)
		return ok && stored != nil && entity.AsInt64(stored) == n
	case kindBool:
		b, ok := toBool(param)
		return ok && stored == b
	}
	return toString(stored) == param
}

type orderKey struct {
	field string
	desc  bool
}

// orderKeys campos de ?ordering= permitidos; si ninguno es válido se usa el orden por defecto.
func orderKeys(sc *schema, param string) []orderKey {
	var keys []orderKey
	for _, raw := range strings.Split(param, ",") {
		raw = strings.TrimSpace(raw)
		desc := strings.HasPrefix(raw, "-")
		name := strings.TrimPrefix(raw, "-")
		for _, allowed := range sc.ordering {
			if allowed == name {
				keys = append(keys, orderKey{field: name, desc: desc})
				break
			}
		}
	}
	if len(keys) == 0 && sc.order != "" {
		keys = []orderKey{{field: strings.TrimPrefix(sc.order, "-"), desc: strings.HasPrefix(sc.order, "-")}}
	}
	return keys
}

func sortRecords(recs []entity.Record, keys []orderKey) {
	sort.SliceStable(recs, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(recs[i][k.field], recs[j][k.field])
			if c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// Get devuelve el registro renderizado o domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, resource string, id int64) (entity.Record, error) {
	sc, err := lookup(resource)
	if err != nil {
		return nil, err
	}
	rec, err := s.find(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, sc, rec)
}

func (s *Service) find(ctx context.Context, resource string, id int64) (entity.Record, error) {
	rec, err := s.repo.GetByID(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%s %d: %w", resource, id, domain.ErrNotFound)
	}
	return rec, nil
}

// Create valida y persiste un registro nuevo.
func (s *Service) Create(ctx context.Context, resource string, in Input) (entity.Record, error) {
	sc, err := lookup(resource)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case Orders:
		var id int64
		err := s.inTx(ctx, func(tx *Service) error {
			var err error
			id, err = tx.createOrder(ctx, in)
			return err
		})
		if err != nil {
			return nil, err
		}
		return s.Get(ctx, Orders, id)
	case StaffUsers:
		return s.createStaff(ctx, sc, in)
	}

	rec, err := s.apply(ctx, sc, 0, nil, in, false)
	if err != nil {
		return nil, err
	}
	if resource == OrderItems {
		if err := s.checkUniqueLine(ctx, rec, 0); err != nil {
			return nil, err
		}
	}
	saved, err := s.repo.Insert(ctx, resource, rec)
	if err != nil {
		return nil, err
	}
	if resource == OrderItems {
		if err := s.recomputeTotal(ctx, entity.AsInt64(saved["order"])); err != nil {
			return nil, err
		}
	}
	s.log.Debug().Str("resource", resource).Int64("id", saved.ID()).Msg("sandbox: creado")
	return s.render(ctx, sc, saved)
}

// Update PUT (partial=false) o PATCH (partial=true).
func (s *Service) Update(ctx context.Context, resource string, id int64, in Input, partial bool) (entity.Record, error) {
	sc, err := lookup(resource)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.find(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	switch resource {
	case Orders:
		err := s.inTx(ctx, func(tx *Service) error {
			return tx.updateOrder(ctx, current, in, partial)
		})
		if err != nil {
			return nil, err
		}
		return s.Get(ctx, Orders, id)
	case StaffUsers:
		return s.updateStaff(ctx, sc, current, in, partial)
	}

	rec, err := s.apply(ctx, sc, id, current, in, partial)
	if err != nil {
		return nil, err
	}
	if resource == OrderItems {
		if err := s.checkUniqueLine(ctx, rec, id); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, resource, id, rec); err != nil {
		return nil, err
	}
	if resource == OrderItems {
		// la línea pudo cambiar de pedido
		for _, orderID := range uniqueIDs(entity.AsInt64(current["order"]), entity.AsInt64(rec["order"])) {
			if err := s.recomputeTotal(ctx, orderID); err != nil {
				return nil, err
			}
		}
	}
	return s.Get(ctx, resource, id)
}

// Delete borra el registro. Las usuarias se marcan inactivas y los pedidos
// se borran junto con sus líneas. Devuelve el registro afectado (usuarias) o nil.
func (s *Service) Delete(ctx context.Context, resource string, id int64) (entity.Record, error) {
	sc, err := lookup(resource)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.find(ctx, resource, id)
	if err != nil {
		return nil, err
	}
	switch resource {
	case StaffUsers:
		return s.setActive(ctx, sc, current, false)
	case Orders:
		return nil, s.inTx(ctx, func(tx *Service) error {
			return tx.deleteOrder(ctx, id)
		})
	case Categories:
		// on_delete=SET_NULL en productos
		if err := s.detach(ctx, Products, "category", id); err != nil {
			return nil, err
		}
	case Customers:
		return nil, s.inTx(ctx, func(tx *Service) error {
			if err := tx.cascade(ctx, Orders, "customer", id, tx.deleteOrder); err != nil {
				return err
			}
			return tx.repo.Delete(ctx, Customers, id)
		})
	case Products:
		if err := s.cascade(ctx, OrderItems, "product", id, s.deleteLine); err != nil {
			return nil, err
		}
	case OrderItems:
		return nil, s.deleteLine(ctx, id)
	}
	return nil, s.repo.Delete(ctx, resource, id)
}

func (s *Service) detach(ctx context.Context, resource, field string, id int64) error {
	recs, err := s.repo.List(ctx, resource)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if rec[field] != nil && entity.AsInt64(rec[field]) == id {
			rec[field] = nil
			if err := s.repo.Update(ctx, resource, rec.ID(), rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) cascade(ctx context.Context, resource, field string, id int64, del func(context.Context, int64) error) error {
	recs, err := s.repo.List(ctx, resource)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if entity.AsInt64(rec[field]) == id {
			if err := del(ctx, rec.ID()); err != nil {
				return err
			}
		}
	}
	return nil
}

// apply construye el registro a guardar a partir de current (nil al crear) e in.
func (s *Service) apply(ctx context.Context, sc *schema, id int64, current entity.Record, in Input, partial bool) (entity.Record, error) {
	errs := newValidationError()
	out := entity.Record{}
	if current != nil {
		out = current.Clone()
	}

	for _, f := range sc.fields {
		if f.kind == kindFile {
			if name, ok := in.Files[f.name]; ok {
				out[f.name] = mediaURL(sc.media, name)
			} else if v, ok := in.Values[f.name]; ok && isBlank(v) {
				out[f.name] = nil
			} else if current == nil {
				out[f.name] = nil
			}
			continue
		}
		raw, present := in.Values[f.name]
		if !present {
			if f.required && !partial {
				errs.add(f.name, msgRequired)
			} else if current == nil {
				out[f.name] = f.def
			}
			continue
		}
		val, msg := s.coerce(f, raw)
		if msg != "" {
			errs.add(f.name, msg)
			continue
		}
		if val == nil || val == "" {
			if f.required {
				errs.add(f.name, msgBlank)
				continue
			}
		}
		if f.kind == kindRef && val != nil {
			ref, err := s.repo.GetByID(ctx, f.ref, val.(int64))
			if err != nil {
				return nil, err
			}
			if ref == nil {
				errs.add(f.name, fmt.Sprintf("Clave primaria %q inválida - objeto no existe.", fmt.Sprint(val)))
				continue
			}
		}
		out[f.name] = val
	}
	if !errs.empty() {
		return nil, errs
	}
	if err := s.checkUnique(ctx, sc, id, out); err != nil {
		return nil, err
	}
	if sc.timestamps {
		ts := s.timestamp()
		if current == nil {
			out["created_at"] = ts
		}
		out["updated_at"] = ts
	}
	return out, nil
}

func (s *Service) checkUnique(ctx context.Context, sc *schema, id int64, rec entity.Record) error {
	var uniques []field
	for _, f := range sc.fields {
		if f.unique {
			uniques = append(uniques, f)
		}
	}
	if len(uniques) == 0 {
		return nil
	}
	all, err := s.repo.List(ctx, sc.resource)
	if err != nil {
		return err
	}
	errs := newValidationError()
	for _, f := range uniques {
		val := strings.ToLower(toString(rec[f.name]))
		if val == "" {
			continue
		}
		for _, other := range all {
			if other.ID() != id && strings.ToLower(toString(other[f.name])) == val {
				errs.add(f.name, fmt.Sprintf("Ya existe un registro con este %s.", f.name))
				break
			}
		}
	}
	return errs.orNil()
}

// render prepara un registro para la respuesta: oculta campos de solo escritura
// y añade los campos derivados (customer_name, product_name, items).
func (s *Service) render(ctx context.Context, sc *schema, rec entity.Record) (entity.Record, error) {
	out := rec.Clone()
	delete(out, "password_hash")
	switch sc.resource {
	case Orders:
		return s.renderOrder(ctx, out)
	case OrderItems:
		name, err := s.nameOf(ctx, Products, out["product"])
		if err != nil {
			return nil, err
		}
		out["product_name"] = name
	}
	return out, nil
}

// nameOf campo name del registro referenciado ("" si no existe).
func (s *Service) nameOf(ctx context.Context, resource string, ref any) (string, error) {
	if ref == nil {
		return "", nil
	}
	rec, err := s.repo.GetByID(ctx, resource, entity.AsInt64(ref))
	if err != nil || rec == nil {
		return "", err
	}
	return rec.String("name"), nil
}

func uniqueIDs(ids ...int64) []int64 {
	seen := map[int64]bool{}
	var out []int64
	for _, id := range ids {
		if id != 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
