package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sahtycare/sahty/internal/domain/medication"
	"github.com/sahtycare/sahty/internal/domain/prescription"
)

func newMedicationFixture() (*MedicationService, *fakeMedicationRepo, *fakePrescriptionRepo) {
	medications := newFakeMedicationRepo()
	prescriptions := newFakePrescriptionRepo()
	svc := NewMedicationService(medications, prescriptions, fakeTx{}, zap.NewNop())
	return svc, medications, prescriptions
}

func TestMedicationStockMustBeNonNegative(t *testing.T) {
	svc, _, _ := newMedicationFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, &medication.CreateMedicationCommand{Name: "Ibuprofen", Stock: -1})
	assert.ErrorIs(t, err, medication.ErrNegativeStock)

	m, err := svc.Create(ctx, &medication.CreateMedicationCommand{Name: "Ibuprofen", Stock: 0})
	require.NoError(t, err)

	_, err = svc.Update(ctx, m.ID, &medication.UpdateMedicationCommand{Name: "Ibuprofen", Stock: -5})
	assert.ErrorIs(t, err, medication.ErrNegativeStock)
}

func TestDeleteMedicationBlockedByPrescriptions(t *testing.T) {
	svc, _, prescriptions := newMedicationFixture()
	ctx := context.Background()

	m, err := svc.Create(ctx, &medication.CreateMedicationCommand{Name: "Amoxicillin", Stock: 20})
	require.NoError(t, err)

	require.NoError(t, prescriptions.Create(ctx, &prescription.Prescription{
		DoctorID: uuid.New(), PatientID: uuid.New(), PharmacistID: uuid.New(),
		MedicationID: m.ID, DateIssued: time.Now(), Dosage: "1/day",
		Status: prescription.StatusPending,
	}))

	err = svc.Delete(ctx, m.ID)
	assert.ErrorIs(t, err, medication.ErrMedicationReferenced)

	_, err = svc.Get(ctx, m.ID)
	assert.NoError(t, err)
}

func TestDeleteMedicationUnknown(t *testing.T) {
	svc, _, _ := newMedicationFixture()
	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, medication.ErrMedicationNotFound)
}
