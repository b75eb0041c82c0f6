package sandbox

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fenix-admin/internal/domain"
	"github.com/jhoicas/fenix-admin/internal/domain/entity"
)

// ErrBadCredentials usuario o contraseña incorrectos, o usuaria inactiva.
var ErrBadCredentials = errors.New("credenciales inválidas")

// passwordFields extrae password y password_confirm de la entrada.
func passwordFields(in Input) (pw, confirm string, present bool) {
	rawPw, okPw := in.Values["password"]
	rawConfirm, okConfirm := in.Values["password_confirm"]
	return toString(rawPw), toString(rawConfirm), okPw || okConfirm
}

func (s *Service) hashPassword(errs *ValidationError, pw, confirm string) string {
	if strings.TrimSpace(pw) == "" {
		errs.add("password", msgRequired)
		return ""
	}
	if pw != confirm {
		errs.add("password_confirm", msgPasswordDiff)
		return ""
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		errs.add("password", err.Error())
		return ""
	}
	return string(hash)
}

// createStaff exige password == password_confirm; solo se guarda el hash bcrypt.
func (s *Service) createStaff(ctx context.Context, sc *schema, in Input) (entity.Record, error) {
	errs := newValidationError()
	pw, confirm, _ := passwordFields(in)
	hash := s.hashPassword(errs, pw, confirm)

	rec, err := s.apply(ctx, sc, 0, nil, in, false)
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		errs.merge(verr.Fields)
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}
	syncActive(rec)
	rec["password_hash"] = hash

	saved, err := s.repo.Insert(ctx, StaffUsers, rec)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int64("id", saved.ID()).Str("username", saved.String("username")).Msg("sandbox: usuaria creada")
	return s.render(ctx, sc, saved)
}

func (s *Service) updateStaff(ctx context.Context, sc *schema, current entity.Record, in Input, partial bool) (entity.Record, error) {
	errs := newValidationError()
	var hash string
	if pw, confirm, present := passwordFields(in); present {
		hash = s.hashPassword(errs, pw, confirm)
	}
	rec, err := s.apply(ctx, sc, current.ID(), current, in, partial)
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		errs.merge(verr.Fields)
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}
	if _, ok := in.Values["status"]; ok {
		syncActive(rec)
	}
	if hash != "" {
		rec["password_hash"] = hash
	}
	if err := s.repo.Update(ctx, StaffUsers, current.ID(), rec); err != nil {
		return nil, err
	}
	return s.Get(ctx, StaffUsers, current.ID())
}

// syncActive una usuaria INACTIVE nunca queda con is_active=true.
func syncActive(rec entity.Record) {
	if rec.String("status") == entity.StatusInactive {
		rec["is_active"] = false
	}
}

// setActive baja lógica (false) o reactivación (true).
func (s *Service) setActive(ctx context.Context, sc *schema, rec entity.Record, active bool) (entity.Record, error) {
	rec["is_active"] = active
	if active {
		rec["status"] = entity.StatusActive
	} else {
		rec["status"] = entity.StatusInactive
	}
	if sc.timestamps {
		rec["updated_at"] = s.timestamp()
	}
	if err := s.repo.Update(ctx, StaffUsers, rec.ID(), rec); err != nil {
		return nil, err
	}
	return s.render(ctx, sc, rec)
}

// Reactivate vuelve a ACTIVE; sobre una usuaria activa no cambia nada y no falla.
func (s *Service) Reactivate(ctx context.Context, id int64) (entity.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.find(ctx, StaffUsers, id)
	if err != nil {
		return nil, err
	}
	return s.setActive(ctx, schemas[StaffUsers], rec, true)
}

// Statistics totales, conteos por rol y estado, y salario promedio.
func (s *Service) Statistics(ctx context.Context) (*entity.StaffStatistics, error) {
	all, err := s.repo.List(ctx, StaffUsers)
	if err != nil {
		return nil, err
	}
	stats := &entity.StaffStatistics{Total: len(all), ByRole: []entity.GroupCount{}, ByStatus: []entity.GroupCount{}}
	roles := map[string]int{}
	statuses := map[string]int{}
	sum := decimal.Zero
	withSalary := 0
	for _, rec := range all {
		if rec["is_active"] == true {
			stats.Active++
		} else {
			stats.Inactive++
		}
		roles[rec.String("role")]++
		statuses[rec.String("status")]++
		if d, ok := numeric(rec["salary"]); ok && rec["salary"] != nil {
			sum = sum.Add(d)
			withSalary++
		}
	}
	for _, role := range sortedKeys(roles) {
		stats.ByRole = append(stats.ByRole, entity.GroupCount{Role: role, Count: roles[role]})
	}
	for _, st := range sortedKeys(statuses) {
		stats.ByStatus = append(stats.ByStatus, entity.GroupCount{Status: st, Count: statuses[st]})
	}
	if withSalary > 0 {
		avg := sum.Div(decimal.NewFromInt(int64(withSalary))).Round(2)
		stats.AverageSalary = &avg
	}
	return stats, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Authenticate busca la usuaria por username o email y compara el hash.
// Usuarias inactivas no pueden iniciar sesión.
func (s *Service) Authenticate(ctx context.Context, login, password string) (entity.Record, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || password == "" {
		return nil, ErrBadCredentials
	}
	all, err := s.repo.List(ctx, StaffUsers)
	if err != nil {
		return nil, err
	}
	for _, rec := range all {
		if strings.ToLower(rec.String("username")) != login && strings.ToLower(rec.String("email")) != login {
			continue
		}
		if rec["is_active"] != true {
			return nil, ErrBadCredentials
		}
		if bcrypt.CompareHashAndPassword([]byte(rec.String("password_hash")), []byte(password)) != nil {
			return nil, ErrBadCredentials
		}
		return s.render(ctx, schemas[StaffUsers], rec)
	}
	return nil, ErrBadCredentials
}

// EnsureAdmin crea una usuaria ADMIN si no existe ninguna con ese username.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	all, err := s.repo.List(ctx, StaffUsers)
	if err != nil {
		return err
	}
	for _, rec := range all {
		if strings.EqualFold(rec.String("username"), username) {
			return nil
		}
	}
	_, err = s.Create(ctx, StaffUsers, Input{Values: map[string]any{
		"username":         username,
		"email":            username + "@fenix.local",
		"first_name":       "Administradora",
		"role":             entity.RoleAdmin,
		"password":         password,
		"password_confirm": password,
	}})
	if err != nil {
		return fmt.Errorf("crear administradora: %w", err)
	}
	s.log.Info().Str("username", username).Msg("sandbox: administradora creada")
	return nil
}

// IsNotFound atajo para los handlers.
func IsNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
