package services

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/restaurant-reserve/config"
	"github.com/yeremiapane/restaurant-reserve/models"
	"github.com/yeremiapane/restaurant-reserve/utils"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// ReservationService owns availability computation and the reservation
// lifecycle. Business constants come from the injected config so tests
// can shrink the horizon or move the operating hours.
type ReservationService struct {
	DB  *gorm.DB
	Cfg *config.Config

	// now is swappable in tests; defaults to time.Now.
	now func() time.Time
}

func NewReservationService(db *gorm.DB, cfg *config.Config) *ReservationService {
	return &ReservationService{DB: db, Cfg: cfg, now: time.Now}
}

// TableAvailability is one row of an availability query.
type TableAvailability struct {
	TableID        string   `json:"table_id"`
	TypeID         uint     `json:"type_id"`
	TableNumber    int      `json:"table_number"`
	Available      bool     `json:"available"`
	AvailableTimes []string `json:"available_times,omitempty"`
}

// ReservationInput carries the fields a booking user submits.
type ReservationInput struct {
	TableID         string `json:"table_id" binding:"required"`
	ReservationDate string `json:"reservation_date" binding:"required"`
	ReservationTime string `json:"reservation_time" binding:"required"`
	Duration        int    `json:"duration"`
	GuestsCount     int    `json:"guests_count" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
}

func (s *ReservationService) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, n.Location())
}

func parseDate(value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", utils.ErrValidation)
	}
	return d, nil
}

func parseHour(value string) (int, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time format, expected HH:MM", utils.ErrValidation)
	}
	return t.Hour(), nil
}

func (s *ReservationService) validateDate(d time.Time) error {
	today := s.today()
	maxDate := today.AddDate(0, 0, s.Cfg.MaxDaysAdvance)
	if d.Before(today) {
		return fmt.Errorf("%w: cannot book a past date", utils.ErrValidation)
	}
	if d.After(maxDate) {
		return fmt.Errorf("%w: booking is only possible up to %s", utils.ErrValidation, maxDate.Format(dateLayout))
	}
	return nil
}

func (s *ReservationService) validateDuration(duration int) error {
	if duration < s.Cfg.MinDuration {
		return fmt.Errorf("%w: minimum reservation duration is %d hour(s)", utils.ErrValidation, s.Cfg.MinDuration)
	}
	if duration > s.Cfg.MaxDuration {
		return fmt.Errorf("%w: maximum reservation duration is %d hours", utils.ErrValidation, s.Cfg.MaxDuration)
	}
	return nil
}

// overlaps reports whether [start, start+duration) intersects the
// existing reservation's hour range.
func overlaps(start, duration int, existing models.Reservation) bool {
	existingStart, err := parseHour(existing.ReservationTime)
	if err != nil {
		return false
	}
	existingDuration := existing.Duration
	if existingDuration < 1 {
		existingDuration = 1
	}
	return start < existingStart+existingDuration && start+duration > existingStart
}

// lockForUpdate serializes bookings per table on MySQL: the table row
// lock is held until commit, so two overlapping conflict checks for
// the same table cannot both read a pre-insert snapshot. This also
// covers banquet day-exclusivity, which no slot index can express.
// SQLite has no FOR UPDATE and serializes writers itself.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// slotConflicts applies overlaps against every reservation in the list.
func slotConflicts(start, duration int, existing []models.Reservation) bool {
	for _, r := range existing {
		if overlaps(start, duration, r) {
			return true
		}
	}
	return false
}

// Availability computes per-table availability for a date, an optional
// time (HH:MM) and a duration in hours (defaults to the minimum).
// Banquet tables are day-exclusive: any reservation that day blocks all
// slots. Regular tables are checked slot-by-slot via interval overlap.
func (s *ReservationService) Availability(dateStr, timeStr string, duration int) ([]TableAvailability, error) {
	queryDate, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	if err := s.validateDate(queryDate); err != nil {
		return nil, err
	}
	if duration == 0 {
		duration = s.Cfg.MinDuration
	}
	if err := s.validateDuration(duration); err != nil {
		return nil, err
	}

	queryHour := -1
	if timeStr != "" {
		if queryHour, err = parseHour(timeStr); err != nil {
			return nil, err
		}
	}

	var tables []models.Table
	if err := s.DB.Where("is_active = ?", true).Order("table_number").Find(&tables).Error; err != nil {
		return nil, err
	}

	// One query for the whole day instead of one per table.
	var dayReservations []models.Reservation
	if err := s.DB.Where("reservation_date = ?", dateStr).Find(&dayReservations).Error; err != nil {
		return nil, err
	}
	byTable := make(map[string][]models.Reservation)
	for _, r := range dayReservations {
		byTable[r.TableID] = append(byTable[r.TableID], r)
	}

	isToday := queryDate.Equal(s.today())
	currentHour := s.now().Hour()

	availability := make([]TableAvailability, 0, len(tables))
	for _, table := range tables {
		existing := byTable[table.ID]
		isBanquet := table.TypeID == s.Cfg.BanquetTypeID

		row := TableAvailability{
			TableID:     table.ID,
			TypeID:      table.TypeID,
			TableNumber: table.TableNumber,
		}

		if queryHour >= 0 {
			if queryHour+duration > s.Cfg.ClosingHour+1 {
				row.Available = false
			} else if isBanquet {
				row.Available = len(existing) == 0
			} else {
				row.Available = !slotConflicts(queryHour, duration, existing)
			}
			if row.Available {
				row.AvailableTimes = []string{fmt.Sprintf("%02d:00", queryHour)}
			}
			availability = append(availability, row)
			continue
		}

		if isBanquet && len(existing) > 0 {
			row.Available = false
			row.AvailableTimes = []string{}
			availability = append(availability, row)
			continue
		}

		times := make([]string, 0)
		for start := s.Cfg.OpeningHour; start <= s.Cfg.ClosingHour; start++ {
			if start+duration > s.Cfg.ClosingHour+1 {
				continue
			}
			if isToday && start <= currentHour {
				continue
			}
			if !isBanquet && slotConflicts(start, duration, existing) {
				continue
			}
			times = append(times, fmt.Sprintf("%02d:00", start))
		}
		row.Available = len(times) > 0
		row.AvailableTimes = times
		availability = append(availability, row)
	}

	return availability, nil
}

// Create validates and persists a new reservation for userID. The
// conflict check and the insert run in one transaction; the unique
// slot index on the reservations table backstops the exact-slot race.
func (s *ReservationService) Create(input ReservationInput, userID string) (*models.Reservation, error) {
	reservationDate, err := parseDate(input.ReservationDate)
	if err != nil {
		return nil, err
	}
	if err := s.validateDate(reservationDate); err != nil {
		return nil, err
	}
	if input.Duration == 0 {
		input.Duration = s.Cfg.MinDuration
	}
	if err := s.validateDuration(input.Duration); err != nil {
		return nil, err
	}

	startHour, err := parseHour(input.ReservationTime)
	if err != nil {
		return nil, err
	}
	if startHour < s.Cfg.OpeningHour || startHour > s.Cfg.ClosingHour {
		return nil, fmt.Errorf("%w: reservations start between %02d:00 and %02d:00", utils.ErrValidation, s.Cfg.OpeningHour, s.Cfg.ClosingHour)
	}
	if startHour+input.Duration > s.Cfg.ClosingHour+1 {
		return nil, fmt.Errorf("%w: reservation runs past closing time (%02d:00)", utils.ErrValidation, s.Cfg.ClosingHour)
	}
	if reservationDate.Equal(s.today()) && startHour <= s.now().Hour() {
		return nil, fmt.Errorf("%w: same-day bookings must start after the current hour", utils.ErrValidation)
	}

	var reservation *models.Reservation
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := lockForUpdate(tx).Where("id = ? AND is_active = ?", input.TableID, true).First(&table).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: table not found or inactive", utils.ErrNotFound)
			}
			return err
		}

		if input.GuestsCount > table.MaxGuests {
			return fmt.Errorf("%w: table seats at most %d guests", utils.ErrValidation, table.MaxGuests)
		}
		if minGuests := table.MaxGuests / 2; input.GuestsCount < minGuests {
			return fmt.Errorf("%w: this table requires at least %d guests", utils.ErrValidation, minGuests)
		}

		if err := s.checkConflict(tx, &table, input, ""); err != nil {
			return err
		}

		reservation = &models.Reservation{
			UserID:          userID,
			TableID:         input.TableID,
			ReservationDate: input.ReservationDate,
			ReservationTime: input.ReservationTime,
			Duration:        input.Duration,
			GuestsCount:     input.GuestsCount,
			FirstName:       input.FirstName,
			LastName:        input.LastName,
			Phone:           input.Phone,
			Status:          models.ReservationStatusPending,
		}
		return tx.Create(reservation).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %s created: table=%s date=%s time=%s x%dh",
		reservation.ID, reservation.TableID, reservation.ReservationDate, reservation.ReservationTime, reservation.Duration)

	return s.Get(reservation.ID)
}

// checkConflict enforces banquet whole-day exclusivity or the regular
// interval-overlap rule. excludeID skips a reservation when updating.
func (s *ReservationService) checkConflict(tx *gorm.DB, table *models.Table, input ReservationInput, excludeID string) error {
	query := tx.Where("table_id = ? AND reservation_date = ?", input.TableID, input.ReservationDate)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var existing []models.Reservation
	if err := query.Find(&existing).Error; err != nil {
		return err
	}

	if table.TypeID == s.Cfg.BanquetTypeID {
		if len(existing) > 0 {
			return fmt.Errorf("%w: the banquet hall is already booked for this date", utils.ErrConflict)
		}
		return nil
	}

	startHour, err := parseHour(input.ReservationTime)
	if err != nil {
		return err
	}
	if slotConflicts(startHour, input.Duration, existing) {
		return fmt.Errorf("%w: the table is already booked for an overlapping time range", utils.ErrConflict)
	}
	return nil
}

// Get returns one reservation with its table and table type embedded.
func (s *ReservationService) Get(id string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.DB.Preload("Table").Preload("Table.TableType").First(&reservation, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: reservation not found", utils.ErrNotFound)
		}
		return nil, err
	}
	return &reservation, nil
}

// ListByDate returns a day's roster with embedded tables.
func (s *ReservationService) ListByDate(dateStr string) ([]models.Reservation, error) {
	if _, err := parseDate(dateStr); err != nil {
		return nil, err
	}
	var reservations []models.Reservation
	err := s.DB.Preload("Table").Preload("Table.TableType").
		Where("reservation_date = ?", dateStr).
		Order("reservation_time").
		Find(&reservations).Error
	return reservations, err
}

// ListByUser returns all reservations belonging to userID.
func (s *ReservationService) ListByUser(userID string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.DB.Preload("Table").Preload("Table.TableType").
		Where("user_id = ?", userID).
		Order("reservation_date, reservation_time").
		Find(&reservations).Error
	return reservations, err
}

// Update revalidates everything creation does, excluding the updated
// reservation itself from the conflict comparison.
func (s *ReservationService) Update(id string, input ReservationInput) (*models.Reservation, error) {
	reservationDate, err := parseDate(input.ReservationDate)
	if err != nil {
		return nil, err
	}
	if err := s.validateDate(reservationDate); err != nil {
		return nil, err
	}
	if input.Duration == 0 {
		input.Duration = s.Cfg.MinDuration
	}
	if err := s.validateDuration(input.Duration); err != nil {
		return nil, err
	}

	startHour, err := parseHour(input.ReservationTime)
	if err != nil {
		return nil, err
	}
	if startHour < s.Cfg.OpeningHour || startHour > s.Cfg.ClosingHour {
		return nil, fmt.Errorf("%w: reservations start between %02d:00 and %02d:00", utils.ErrValidation, s.Cfg.OpeningHour, s.Cfg.ClosingHour)
	}
	if startHour+input.Duration > s.Cfg.ClosingHour+1 {
		return nil, fmt.Errorf("%w: reservation runs past closing time (%02d:00)", utils.ErrValidation, s.Cfg.ClosingHour)
	}
	if reservationDate.Equal(s.today()) && startHour <= s.now().Hour() {
		return nil, fmt.Errorf("%w: same-day bookings must start after the current hour", utils.ErrValidation)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.First(&reservation, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: reservation not found", utils.ErrNotFound)
			}
			return err
		}

		var table models.Table
		if err := lockForUpdate(tx).Where("id = ? AND is_active = ?", input.TableID, true).First(&table).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: table not found or inactive", utils.ErrNotFound)
			}
			return err
		}

		if input.GuestsCount > table.MaxGuests {
			return fmt.Errorf("%w: table seats at most %d guests", utils.ErrValidation, table.MaxGuests)
		}
		if minGuests := table.MaxGuests / 2; input.GuestsCount < minGuests {
			return fmt.Errorf("%w: this table requires at least %d guests", utils.ErrValidation, minGuests)
		}

		if err := s.checkConflict(tx, &table, input, id); err != nil {
			return err
		}

		reservation.TableID = input.TableID
		reservation.ReservationDate = input.ReservationDate
		reservation.ReservationTime = input.ReservationTime
		reservation.Duration = input.Duration
		reservation.GuestsCount = input.GuestsCount
		reservation.FirstName = input.FirstName
		reservation.LastName = input.LastName
		reservation.Phone = input.Phone
		return tx.Save(&reservation).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// statusTransitions is the closed transition graph. Cancelled and
// completed are terminal.
var statusTransitions = map[string][]string{
	models.ReservationStatusPending:   {models.ReservationStatusConfirmed, models.ReservationStatusCancelled},
	models.ReservationStatusConfirmed: {models.ReservationStatusCompleted, models.ReservationStatusCancelled},
	models.ReservationStatusCancelled: {},
	models.ReservationStatusCompleted: {},
}

// UpdateStatus applies a validated status transition.
func (s *ReservationService) UpdateStatus(id, newStatus string) (*models.Reservation, error) {
	if _, known := statusTransitions[newStatus]; !known {
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrValidation, newStatus)
	}

	var reservation models.Reservation
	if err := s.DB.First(&reservation, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: reservation not found", utils.ErrNotFound)
		}
		return nil, err
	}

	legal := false
	for _, next := range statusTransitions[reservation.Status] {
		if next == newStatus {
			legal = true
			break
		}
	}
	if !legal {
		return nil, fmt.Errorf("%w: cannot change status from %q to %q", utils.ErrValidation, reservation.Status, newStatus)
	}

	reservation.Status = newStatus
	if err := s.DB.Save(&reservation).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete cancels a reservation outright.
func (s *ReservationService) Delete(id string) error {
	result := s.DB.Delete(&models.Reservation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: reservation not found", utils.ErrNotFound)
	}
	return nil
}

// ReservationStats aggregates bookings over a trailing period.
type ReservationStats struct {
	TotalReservations   int            `json:"total_reservations"`
	ReservationsByDate  map[string]int `json:"reservations_by_date"`
	ReservationsByTable map[string]int `json:"reservations_by_table"`
	AverageGuests       float64        `json:"average_guests"`
	AverageDuration     float64        `json:"average_duration"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Stats aggregates reservations whose date is within the trailing
// period (week, month or year; unknown values fall back to week).
func (s *ReservationService) Stats(period string) (*ReservationStats, error) {
	days := 7
	switch period {
	case "month":
		days = 30
	case "year":
		days = 365
	}
	startDate := s.today().AddDate(0, 0, -days).Format(dateLayout)

	var reservations []models.Reservation
	if err := s.DB.Where("reservation_date >= ?", startDate).Find(&reservations).Error; err != nil {
		return nil, err
	}

	stats := &ReservationStats{
		TotalReservations:   len(reservations),
		ReservationsByDate:  make(map[string]int),
		ReservationsByTable: make(map[string]int),
	}

	// Human-readable table labels: "{type display name} №{number}".
	var tables []models.Table
	if err := s.DB.Preload("TableType").Find(&tables).Error; err != nil {
		return nil, err
	}
	labels := make(map[string]string, len(tables))
	for _, t := range tables {
		if t.TableType != nil {
			labels[t.ID] = fmt.Sprintf("%s №%d", t.TableType.DisplayName, t.TableNumber)
		} else {
			labels[t.ID] = fmt.Sprintf("Столик №%d", t.TableNumber)
		}
	}

	totalGuests := 0
	totalDuration := 0
	for _, r := range reservations {
		stats.ReservationsByDate[r.ReservationDate]++
		label, ok := labels[r.TableID]
		if !ok {
			label = r.TableID
		}
		stats.ReservationsByTable[label]++
		totalGuests += r.GuestsCount
		duration := r.Duration
		if duration < 1 {
			duration = 1
		}
		totalDuration += duration
	}

	if stats.TotalReservations > 0 {
		stats.AverageGuests = round1(float64(totalGuests) / float64(stats.TotalReservations))
		stats.AverageDuration = round1(float64(totalDuration) / float64(stats.TotalReservations))
	}

	return stats, nil
}

// SlotTimes lists the bookable start times, useful for clients that
// render the slot picker without an availability query.
func (s *ReservationService) SlotTimes() []string {
	times := make([]string, 0, s.Cfg.ClosingHour-s.Cfg.OpeningHour+1)
	for h := s.Cfg.OpeningHour; h <= s.Cfg.ClosingHour; h++ {
		times = append(times, fmt.Sprintf("%02d:00", h))
	}
	return times
}
