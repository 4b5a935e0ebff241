package library

// Sample datasets shown when the remote API cannot serve a listing. The
// functions return fresh copies so callers may keep or modify them.

func FallbackStats() Stats {
	return Stats{
		TotalBooks:       1247,
		TotalStudents:    856,
		TotalStaff:       42,
		TotalCategories:  28,
		ActiveBorrowings: 167,
		OverdueBooks:     23,
	}
}

func FallbackBooks() []Book {
	return []Book{
		{ID: 1, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", PublishedYear: 1925, CategoryName: "Classic Literature"},
		{ID: 2, Title: "To Kill a Mockingbird", Author: "Harper Lee", PublishedYear: 1960, CategoryName: "Fiction"},
		{ID: 3, Title: "1984", Author: "George Orwell", PublishedYear: 1949, CategoryName: "Science Fiction"},
		{ID: 4, Title: "Pride and Prejudice", Author: "Jane Austen", PublishedYear: 1813, CategoryName: "Classic Literature"},
		{ID: 5, Title: "The Hobbit", Author: "J.R.R. Tolkien", PublishedYear: 1937, CategoryName: "Fantasy"},
	}
}

func FallbackStudents() []Student {
	return []Student{
		{ID: 1, FirstName: "John", LastName: "Doe", Course: "Computer Science", YearLevel: 3},
		{ID: 2, FirstName: "Jane", LastName: "Smith", Course: "Engineering", YearLevel: 2},
		{ID: 3, FirstName: "Michael", LastName: "Johnson", Course: "Business Administration", YearLevel: 4},
		{ID: 4, FirstName: "Sarah", LastName: "Williams", Course: "Psychology", YearLevel: 1},
		{ID: 5, FirstName: "David", LastName: "Brown", Course: "Biology", YearLevel: 3},
	}
}

func FallbackBorrowRecords() []BorrowRecord {
	date := func(s string) *string { return &s }
	return []BorrowRecord{
		{ID: 1, StudentName: "John Doe", BookTitle: "The Great Gatsby", StaffName: "Dr. Wilson", BorrowDate: "2024-01-15", ReturnDate: date("2024-01-22")},
		{ID: 2, StudentName: "Jane Smith", BookTitle: "1984", StaffName: "Dr. Wilson", BorrowDate: "2024-01-18"},
		{ID: 3, StudentName: "Michael Johnson", BookTitle: "The Hobbit", StaffName: "Prof. Brown", BorrowDate: "2024-01-10", ReturnDate: date("2024-01-20")},
		{ID: 4, StudentName: "Sarah Williams", BookTitle: "Pride and Prejudice", StaffName: "Dr. Wilson", BorrowDate: "2024-01-22"},
	}
}
