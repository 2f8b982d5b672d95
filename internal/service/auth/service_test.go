package auth_service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sena-tracker/internal/models"
	"sena-tracker/internal/models/config"
	"sena-tracker/internal/service"
	"sena-tracker/internal/state"
)

func newService() service.AuthService {
	f := models.NewFicha("2503412", "ADSO")
	f.Apprentices = []models.Apprentice{{ID: "1020304050", DocumentNumber: "1020304050", FullName: "Ana"}}
	other := models.NewFicha("2891234", "Contable")
	other.Apprentices = []models.Apprentice{{ID: "1020304050", DocumentNumber: "1020304050", FullName: "Ana (dup)"}}

	creds := config.AuthConfig{
		InstructorUser: "INSTRUCTOR2026", InstructorPassword: "INSTRUCTOR2026",
		CoordinatorUser: "COORDINADOR2026", CoordinatorPassword: "COORDINADOR2026",
	}
	store := state.NewStore(state.Snapshot{Fichas: []models.Ficha{f, other}})
	return NewAuthService(creds, store, zap.NewNop())
}

func TestLogin(t *testing.T) {
	svc := newService()

	tests := []struct {
		name     string
		user     string
		password string
		role     models.Role
		ficha    string
	}{
		{"instructor", "INSTRUCTOR2026", "INSTRUCTOR2026", models.RoleInstructor, ""},
		{"coordinator", "COORDINADOR2026", "COORDINADOR2026", models.RoleCoordinator, ""},
		{"apprentice first ficha wins", "1020304050", "1020304050", models.RoleApprentice, "2503412"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := svc.Login(tt.user, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.role, s.Role)
			assert.Equal(t, tt.ficha, s.FichaID)
			if tt.role == models.RoleApprentice {
				require.NotNil(t, s.Apprentice)
				assert.Equal(t, "Ana", s.Apprentice.FullName)
				assert.False(t, s.CanManage())
			}
		})
	}
}

func TestLoginRejected(t *testing.T) {
	svc := newService()

	for _, c := range [][2]string{
		{"INSTRUCTOR2026", "wrong"},
		{"1020304050", "INSTRUCTOR2026"},
		{"999", "999"},
		{"", ""},
	} {
		_, err := svc.Login(c[0], c[1])
		assert.Equal(t, service.ErrInvalidCredentials, err, c[0])
	}
	assert.Equal(t, "Credenciales inválidas. Verifique su usuario y contraseña.", service.ErrInvalidCredentials.Error())
}
