package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/internal/domain/appointment"
	"github.com/sahtycare/sahty/internal/domain/doctor"
)

func newDoctorServiceFixture(t *testing.T) (*DoctorService, *userServiceFixture) {
	t.Helper()

	f := newUserServiceFixture(t)

	audit := NewAuditService(fakeAuditRepo{}, zap.NewNop())
	t.Cleanup(audit.Shutdown)

	svc := NewDoctorService(f.doctors, f.users, f.appointments, f.prescriptions, fakeTx{}, audit, zap.NewNop())
	return svc, f
}

func TestUpdateDoctorPropagatesToAccount(t *testing.T) {
	svc, f := newDoctorServiceFixture(t)
	ctx := context.Background()

	u := f.seedUser(t, "old@example.com", domain.RoleDoctor)
	d, err := f.doctors.GetByUserID(ctx, u.ID)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, d.ID, &doctor.UpdateDoctorCommand{
		FullName:   "Dr. Renamed",
		Speciality: "Dermatology",
		Email:      "New@Example.com",
	}, uuid.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)

	account, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", account.Email)
	assert.Equal(t, "Dr. Renamed", account.FullName)
	assert.Equal(t, domain.RoleDoctor, account.Role)
}

func TestUpdateDoctorEmailConflict(t *testing.T) {
	svc, f := newDoctorServiceFixture(t)
	ctx := context.Background()

	u1 := f.seedUser(t, "first@example.com", domain.RoleDoctor)
	f.seedUser(t, "second@example.com", domain.RoleDoctor)

	d1, err := f.doctors.GetByUserID(ctx, u1.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, d1.ID, &doctor.UpdateDoctorCommand{
		FullName: "X", Speciality: "General", Email: "second@example.com",
	}, uuid.New(), "")
	assert.ErrorIs(t, err, doctor.ErrEmailInUse)
}

func TestDeleteDoctorRemovesAccount(t *testing.T) {
	svc, f := newDoctorServiceFixture(t)
	ctx := context.Background()

	u := f.seedUser(t, "leaving@example.com", domain.RoleDoctor)
	d, err := f.doctors.GetByUserID(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, d.ID, uuid.New(), ""))

	_, err = f.doctors.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, doctor.ErrDoctorNotFound)
	_, err = f.users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteDoctorBlockedByAppointments(t *testing.T) {
	svc, f := newDoctorServiceFixture(t)
	ctx := context.Background()

	u := f.seedUser(t, "busy.dr@example.com", domain.RoleDoctor)
	d, err := f.doctors.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, f.appointments.Create(ctx, &appointment.Appointment{
		DoctorID: d.ID, PatientID: uuid.New(), Date: time.Now(), Status: appointment.StatusAccepted,
	}))

	err = svc.Delete(ctx, d.ID, uuid.New(), "")
	assert.ErrorIs(t, err, doctor.ErrDoctorReferenced)

	_, err = f.doctors.GetByID(ctx, d.ID)
	assert.NoError(t, err)
	_, err = f.users.GetByID(ctx, u.ID)
	assert.NoError(t, err)
}
