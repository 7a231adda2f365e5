package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/internal/domain/appointment"
	"github.com/sahtycare/sahty/internal/domain/doctor"
	"github.com/sahtycare/sahty/internal/domain/medication"
	"github.com/sahtycare/sahty/internal/domain/notification"
	"github.com/sahtycare/sahty/internal/domain/patient"
	"github.com/sahtycare/sahty/internal/domain/pharmacist"
	"github.com/sahtycare/sahty/internal/domain/prescription"
)

// fakeTx runs the unit of work directly. The services are exercised
// against in-memory stores, so there is nothing to roll back; the tests
// assert that guards fire before any mutation instead.
type fakeTx struct{}

func (fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(context.Context, *domain.AuditLog) error { return nil }

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(u.Email)
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) List(context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return ErrUserNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*doctor.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*doctor.Doctor)}
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *doctor.Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	return d, nil
}

func (r *fakeDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*doctor.Doctor, error) {
	for _, d := range r.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, doctor.ErrDoctorNotFound
}

func (r *fakeDoctorRepo) List(context.Context) ([]*doctor.Doctor, error) {
	out := make([]*doctor.Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, d *doctor.Doctor) error {
	if _, ok := r.doctors[d.ID]; !ok {
		return doctor.ErrDoctorNotFound
	}
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.doctors[id]; !ok {
		return doctor.ErrDoctorNotFound
	}
	delete(r.doctors, id)
	return nil
}

func (r *fakeDoctorRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.doctors[id]
	return ok, nil
}

func (r *fakeDoctorRepo) ExistsByEmail(_ context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	for _, d := range r.doctors {
		if excludeID != nil && d.ID == *excludeID {
			continue
		}
		if d.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakePatientRepo struct {
	patients map[uuid.UUID]*patient.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
}

func (r *fakePatientRepo) Create(_ context.Context, p *patient.Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return p, nil
}

func (r *fakePatientRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*patient.Patient, error) {
	for _, p := range r.patients {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (r *fakePatientRepo) List(context.Context) ([]*patient.Patient, error) {
	out := make([]*patient.Patient, 0, len(r.patients))
	for _, p := range r.patients {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePatientRepo) Update(_ context.Context, p *patient.Patient) error {
	if _, ok := r.patients[p.ID]; !ok {
		return patient.ErrPatientNotFound
	}
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.patients[id]; !ok {
		return patient.ErrPatientNotFound
	}
	delete(r.patients, id)
	return nil
}

func (r *fakePatientRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.patients[id]
	return ok, nil
}

func (r *fakePatientRepo) ExistsByEmail(_ context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	for _, p := range r.patients {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakePharmacistRepo struct {
	pharmacists map[uuid.UUID]*pharmacist.Pharmacist
}

func newFakePharmacistRepo() *fakePharmacistRepo {
	return &fakePharmacistRepo{pharmacists: make(map[uuid.UUID]*pharmacist.Pharmacist)}
}

func (r *fakePharmacistRepo) Create(_ context.Context, ph *pharmacist.Pharmacist) error {
	if ph.ID == uuid.Nil {
		ph.ID = uuid.New()
	}
	r.pharmacists[ph.ID] = ph
	return nil
}

func (r *fakePharmacistRepo) GetByID(_ context.Context, id uuid.UUID) (*pharmacist.Pharmacist, error) {
	ph, ok := r.pharmacists[id]
	if !ok {
		return nil, pharmacist.ErrPharmacistNotFound
	}
	return ph, nil
}

func (r *fakePharmacistRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*pharmacist.Pharmacist, error) {
	for _, ph := range r.pharmacists {
		if ph.UserID == userID {
			return ph, nil
		}
	}
	return nil, pharmacist.ErrPharmacistNotFound
}

func (r *fakePharmacistRepo) List(context.Context) ([]*pharmacist.Pharmacist, error) {
	out := make([]*pharmacist.Pharmacist, 0, len(r.pharmacists))
	for _, ph := range r.pharmacists {
		out = append(out, ph)
	}
	return out, nil
}

func (r *fakePharmacistRepo) Update(_ context.Context, ph *pharmacist.Pharmacist) error {
	if _, ok := r.pharmacists[ph.ID]; !ok {
		return pharmacist.ErrPharmacistNotFound
	}
	r.pharmacists[ph.ID] = ph
	return nil
}

func (r *fakePharmacistRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.pharmacists[id]; !ok {
		return pharmacist.ErrPharmacistNotFound
	}
	delete(r.pharmacists, id)
	return nil
}

func (r *fakePharmacistRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.pharmacists[id]
	return ok, nil
}

func (r *fakePharmacistRepo) ExistsByEmail(_ context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	for _, ph := range r.pharmacists {
		if excludeID != nil && ph.ID == *excludeID {
			continue
		}
		if ph.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type fakeMedicationRepo struct {
	medications map[uuid.UUID]*medication.Medication
}

func newFakeMedicationRepo() *fakeMedicationRepo {
	return &fakeMedicationRepo{medications: make(map[uuid.UUID]*medication.Medication)}
}

func (r *fakeMedicationRepo) Create(_ context.Context, m *medication.Medication) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.medications[m.ID] = m
	return nil
}

func (r *fakeMedicationRepo) GetByID(_ context.Context, id uuid.UUID) (*medication.Medication, error) {
	m, ok := r.medications[id]
	if !ok {
		return nil, medication.ErrMedicationNotFound
	}
	return m, nil
}

func (r *fakeMedicationRepo) List(context.Context) ([]*medication.Medication, error) {
	out := make([]*medication.Medication, 0, len(r.medications))
	for _, m := range r.medications {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMedicationRepo) Update(_ context.Context, m *medication.Medication) error {
	if _, ok := r.medications[m.ID]; !ok {
		return medication.ErrMedicationNotFound
	}
	r.medications[m.ID] = m
	return nil
}

func (r *fakeMedicationRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.medications[id]; !ok {
		return medication.ErrMedicationNotFound
	}
	delete(r.medications, id)
	return nil
}

func (r *fakeMedicationRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.medications[id]
	return ok, nil
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*appointment.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*appointment.Appointment)}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return a, nil
}

func (r *fakeAppointmentRepo) List(context.Context) ([]*appointment.Appointment, error) {
	out := make([]*appointment.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *appointment.Appointment) error {
	if _, ok := r.appointments[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	r.appointments[a.ID] = a
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.appointments[id]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) ExistsForDoctor(_ context.Context, doctorID uuid.UUID) (bool, error) {
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) ExistsForPatient(_ context.Context, patientID uuid.UUID) (bool, error) {
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			return true, nil
		}
	}
	return false, nil
}

type fakePrescriptionRepo struct {
	prescriptions map[uuid.UUID]*prescription.Prescription
}

func newFakePrescriptionRepo() *fakePrescriptionRepo {
	return &fakePrescriptionRepo{prescriptions: make(map[uuid.UUID]*prescription.Prescription)}
}

func (r *fakePrescriptionRepo) Create(_ context.Context, p *prescription.Prescription) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.prescriptions[p.ID] = p
	return nil
}

func (r *fakePrescriptionRepo) GetByID(_ context.Context, id uuid.UUID) (*prescription.Prescription, error) {
	p, ok := r.prescriptions[id]
	if !ok {
		return nil, prescription.ErrPrescriptionNotFound
	}
	return p, nil
}

func (r *fakePrescriptionRepo) List(context.Context) ([]*prescription.Prescription, error) {
	out := make([]*prescription.Prescription, 0, len(r.prescriptions))
	for _, p := range r.prescriptions {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePrescriptionRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*prescription.Prescription, error) {
	var out []*prescription.Prescription
	for _, p := range r.prescriptions {
		if p.DoctorID == doctorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePrescriptionRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*prescription.Prescription, error) {
	var out []*prescription.Prescription
	for _, p := range r.prescriptions {
		if p.PatientID == patientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePrescriptionRepo) ListByPharmacist(_ context.Context, pharmacistID uuid.UUID) ([]*prescription.Prescription, error) {
	var out []*prescription.Prescription
	for _, p := range r.prescriptions {
		if p.PharmacistID == pharmacistID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePrescriptionRepo) Update(_ context.Context, p *prescription.Prescription) error {
	if _, ok := r.prescriptions[p.ID]; !ok {
		return prescription.ErrPrescriptionNotFound
	}
	r.prescriptions[p.ID] = p
	return nil
}

func (r *fakePrescriptionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.prescriptions[id]; !ok {
		return prescription.ErrPrescriptionNotFound
	}
	delete(r.prescriptions, id)
	return nil
}

func (r *fakePrescriptionRepo) ExistsForDoctor(_ context.Context, doctorID uuid.UUID) (bool, error) {
	for _, p := range r.prescriptions {
		if p.DoctorID == doctorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePrescriptionRepo) ExistsForPatient(_ context.Context, patientID uuid.UUID) (bool, error) {
	for _, p := range r.prescriptions {
		if p.PatientID == patientID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePrescriptionRepo) ExistsForPharmacist(_ context.Context, pharmacistID uuid.UUID) (bool, error) {
	for _, p := range r.prescriptions {
		if p.PharmacistID == pharmacistID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePrescriptionRepo) ExistsForMedication(_ context.Context, medicationID uuid.UUID) (bool, error) {
	for _, p := range r.prescriptions {
		if p.MedicationID == medicationID {
			return true, nil
		}
	}
	return false, nil
}

type fakeNotificationRepo struct {
	notifications []*notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].UserID == userID {
			out = append(out, r.notifications[i])
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return notification.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) forUser(userID uuid.UUID) []*notification.Notification {
	var out []*notification.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
