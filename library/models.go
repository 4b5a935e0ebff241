package library

// Stats is the dashboard overview returned by /api/library/stats.
type Stats struct {
	TotalBooks       int `json:"totalBooks"`
	TotalStudents    int `json:"totalStudents"`
	TotalStaff       int `json:"totalStaff"`
	TotalCategories  int `json:"totalCategories"`
	ActiveBorrowings int `json:"activeBorrowings"`
	OverdueBooks     int `json:"overdueBooks"`
}

// Book is a catalogue entry as listed by /api/books.
type Book struct {
	ID            int64  `json:"book_id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear int    `json:"published_year"`
	CategoryName  string `json:"category_name"`
}

// Student represents a registered student.
type Student struct {
	ID        int64  `json:"student_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Course    string `json:"course"`
	YearLevel int    `json:"year_level"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// BorrowRecord is one lending transaction. ReturnDate is nil while the book
// is still out.
type BorrowRecord struct {
	ID          int64   `json:"borrow_id"`
	StudentName string  `json:"student_name"`
	BookTitle   string  `json:"book_title"`
	StaffName   string  `json:"staff_name"`
	BorrowDate  string  `json:"borrow_date"`
	ReturnDate  *string `json:"return_date"`
}

// Returned reports whether the record has a return date.
func (r BorrowRecord) Returned() bool { return r.ReturnDate != nil && *r.ReturnDate != "" }

// Position is a staff position managed by the positions screen.
type Position struct {
	ID   int64  `json:"position_id"`
	Code string `json:"position_code"`
	Name string `json:"position_name"`
}

// PositionInput is the body of create and update requests.
type PositionInput struct {
	Code string `json:"position_code"`
	Name string `json:"position_name"`
}

// Credentials are posted to /auth/login and /auth/register.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	Message     string `json:"message"`
}

// apiMessage covers the {message} / {error} bodies the API sends with
// failures and some successes.
type apiMessage struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (m apiMessage) text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}
