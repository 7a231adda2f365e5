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
	"github.com/sahtycare/sahty/internal/domain/doctor"
	"github.com/sahtycare/sahty/internal/domain/medication"
	"github.com/sahtycare/sahty/internal/domain/patient"
	"github.com/sahtycare/sahty/internal/domain/pharmacist"
	"github.com/sahtycare/sahty/internal/domain/prescription"
)

type prescriptionFixture struct {
	svc           *PrescriptionService
	repo          *fakePrescriptionRepo
	notifications *fakeNotificationRepo

	doctorUser     uuid.UUID
	pharmacistUser uuid.UUID
	patientUser    uuid.UUID
	doctorID       uuid.UUID
	pharmacistID   uuid.UUID
	patientID      uuid.UUID
	medicationID   uuid.UUID
}

func newPrescriptionFixture(t *testing.T) *prescriptionFixture {
	t.Helper()
	ctx := context.Background()

	f := &prescriptionFixture{
		repo:           newFakePrescriptionRepo(),
		notifications:  newFakeNotificationRepo(),
		doctorUser:     uuid.New(),
		pharmacistUser: uuid.New(),
		patientUser:    uuid.New(),
	}

	doctors := newFakeDoctorRepo()
	patients := newFakePatientRepo()
	pharmacists := newFakePharmacistRepo()
	medications := newFakeMedicationRepo()

	d := &doctor.Doctor{UserID: f.doctorUser, FullName: "Dr. Ben Salah", Speciality: "Cardiology", Email: "bensalah@example.com"}
	require.NoError(t, doctors.Create(ctx, d))
	f.doctorID = d.ID

	p := &patient.Patient{UserID: f.patientUser, FullName: "Amel", Email: "amel@example.com", DateOfBirth: time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, patients.Create(ctx, p))
	f.patientID = p.ID

	ph := &pharmacist.Pharmacist{UserID: f.pharmacistUser, FullName: "Nour", Email: "nour@example.com", PharmacyName: "Central Pharmacy"}
	require.NoError(t, pharmacists.Create(ctx, ph))
	f.pharmacistID = ph.ID

	m := &medication.Medication{Name: "Paracetamol", Stock: 100}
	require.NoError(t, medications.Create(ctx, m))
	f.medicationID = m.ID

	audit := NewAuditService(fakeAuditRepo{}, zap.NewNop())
	t.Cleanup(audit.Shutdown)

	f.svc = NewPrescriptionService(
		f.repo, doctors, patients, pharmacists, medications,
		NewNotificationService(f.notifications, zap.NewNop()),
		fakeTx{}, audit, zap.NewNop(),
	)
	return f
}

func pharmacistClaims(userID uuid.UUID) *domain.Claims {
	return &domain.Claims{UserID: userID, Roles: []domain.Role{domain.RolePharmacist}}
}

func (f *prescriptionFixture) create(t *testing.T) *prescription.Prescription {
	t.Helper()

	p, err := f.svc.Create(context.Background(), doctorClaims(f.doctorUser), &prescription.CreatePrescriptionCommand{
		PatientID:    f.patientID,
		PharmacistID: f.pharmacistID,
		MedicationID: f.medicationID,
		DateIssued:   time.Now(),
		Dosage:       "500mg twice daily",
	})
	require.NoError(t, err)
	return p
}

func TestCreatePrescriptionNotifiesPharmacist(t *testing.T) {
	f := newPrescriptionFixture(t)

	p := f.create(t)
	assert.Equal(t, prescription.StatusPending, p.Status)
	assert.Equal(t, f.doctorID, p.DoctorID, "the issuing doctor is always the caller")

	got := f.notifications.forUser(f.pharmacistUser)
	require.Len(t, got, 1)
	assert.Equal(t, "New prescription to review", got[0].Title)
}

func TestCreatePrescriptionUnknownMedication(t *testing.T) {
	f := newPrescriptionFixture(t)

	_, err := f.svc.Create(context.Background(), doctorClaims(f.doctorUser), &prescription.CreatePrescriptionCommand{
		PatientID:    f.patientID,
		PharmacistID: f.pharmacistID,
		MedicationID: uuid.New(),
		DateIssued:   time.Now(),
		Dosage:       "500mg",
	})
	assert.ErrorIs(t, err, medication.ErrMedicationNotFound)
	assert.Empty(t, f.repo.prescriptions, "a failed reference check must not leave a row")
}

func TestAcceptPrescriptionNotifiesPatientAndDoctor(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()
	p := f.create(t)

	accepted, err := f.svc.Accept(ctx, pharmacistClaims(f.pharmacistUser), p.ID)
	require.NoError(t, err)
	assert.Equal(t, prescription.StatusAccepted, accepted.Status)

	assert.Len(t, f.notifications.forUser(f.patientUser), 1)
	assert.Len(t, f.notifications.forUser(f.doctorUser), 1)
}

func TestAcceptPrescriptionIsIdempotent(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()
	p := f.create(t)

	_, err := f.svc.Accept(ctx, pharmacistClaims(f.pharmacistUser), p.ID)
	require.NoError(t, err)

	before := len(f.notifications.forUser(f.patientUser)) + len(f.notifications.forUser(f.doctorUser))

	again, err := f.svc.Accept(ctx, pharmacistClaims(f.pharmacistUser), p.ID)
	require.NoError(t, err)
	assert.Equal(t, prescription.StatusAccepted, again.Status)

	after := len(f.notifications.forUser(f.patientUser)) + len(f.notifications.forUser(f.doctorUser))
	assert.Equal(t, before, after, "re-accepting must not notify again")
}

func TestRefuseAcceptedPrescriptionRejected(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()
	p := f.create(t)

	_, err := f.svc.Accept(ctx, pharmacistClaims(f.pharmacistUser), p.ID)
	require.NoError(t, err)

	_, err = f.svc.Refuse(ctx, pharmacistClaims(f.pharmacistUser), p.ID)
	assert.ErrorIs(t, err, prescription.ErrInvalidStatusTransition)
}

func TestAcceptPrescriptionNotAssignedPharmacist(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()
	p := f.create(t)

	_, err := f.svc.Accept(ctx, pharmacistClaims(uuid.New()), p.ID)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestUpdatePrescriptionRejectsUnknownStatus(t *testing.T) {
	f := newPrescriptionFixture(t)
	p := f.create(t)

	_, err := f.svc.Update(context.Background(), pharmacistClaims(f.pharmacistUser), p.ID, &prescription.UpdatePrescriptionCommand{
		PatientID:    f.patientID,
		MedicationID: f.medicationID,
		DateIssued:   time.Now(),
		Dosage:       "1000mg",
		Status:       "approved-ish",
	})
	assert.ErrorIs(t, err, prescription.ErrInvalidStatus)

	current, err := f.repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "500mg twice daily", current.Dosage, "a rejected status must not apply the other edits")
}

func TestUpdatePrescriptionCannotReopenTerminal(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()
	p := f.create(t)

	_, err := f.svc.Accept(ctx, pharmacistClaims(f.pharmacistUser), p.ID)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, pharmacistClaims(f.pharmacistUser), p.ID, &prescription.UpdatePrescriptionCommand{
		PatientID:    f.patientID,
		MedicationID: f.medicationID,
		DateIssued:   time.Now(),
		Dosage:       "250mg",
		Status:       "pending",
	})
	assert.ErrorIs(t, err, prescription.ErrInvalidStatusTransition)
}

func TestUpdatePrescriptionAcceptingNotifies(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()
	p := f.create(t)

	updated, err := f.svc.Update(ctx, pharmacistClaims(f.pharmacistUser), p.ID, &prescription.UpdatePrescriptionCommand{
		PatientID:    f.patientID,
		MedicationID: f.medicationID,
		DateIssued:   time.Now(),
		Dosage:       "250mg",
		Status:       "Accepted",
	})
	require.NoError(t, err)
	assert.Equal(t, prescription.StatusAccepted, updated.Status)
	assert.Equal(t, "250mg", updated.Dosage)

	require.Len(t, f.notifications.forUser(f.patientUser), 1)
	doctorNotes := f.notifications.forUser(f.doctorUser)
	require.Len(t, doctorNotes, 1)
	assert.Equal(t, "Prescription accepted", doctorNotes[0].Title)
}

func TestListPrescriptionsByViewer(t *testing.T) {
	f := newPrescriptionFixture(t)
	ctx := context.Background()
	f.create(t)

	byDoctor, err := f.svc.List(ctx, doctorClaims(f.doctorUser))
	require.NoError(t, err)
	assert.Len(t, byDoctor, 1)

	byPharmacist, err := f.svc.List(ctx, pharmacistClaims(f.pharmacistUser))
	require.NoError(t, err)
	assert.Len(t, byPharmacist, 1)

	mine, err := f.svc.ListMine(ctx, patientClaims(f.patientUser))
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
