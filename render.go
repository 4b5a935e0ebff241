package main

import (
	"fmt"
	"strings"

	"library-dashboard/library"
)

func printSourceNote(src library.Source) {
	switch src {
	case library.SourceFallback:
		fmt.Println("(API unavailable, showing sample data)")
	case library.SourceNone:
		fmt.Println("(not loaded yet)")
	}
}

func printStats(s library.Stats, src library.Source) {
	fmt.Println("Library Overview")
	fmt.Println(strings.Repeat("-", 36))
	rows := []struct {
		label string
		value int
	}{
		{"Total Books", s.TotalBooks},
		{"Total Students", s.TotalStudents},
		{"Total Staff", s.TotalStaff},
		{"Categories", s.TotalCategories},
		{"Active Borrowings", s.ActiveBorrowings},
		{"Overdue Books", s.OverdueBooks},
	}
	for _, r := range rows {
		fmt.Printf("%-25s %10d\n", r.label, r.value)
	}
	printSourceNote(src)
}

func printBooks(books []library.Book, src library.Source) {
	if len(books) == 0 {
		fmt.Println("No books found.")
		printSourceNote(src)
		return
	}
	fmt.Printf("%-5s %-35s %-25s %-6s %-20s\n", "ID", "Title", "Author", "Year", "Category")
	fmt.Println(strings.Repeat("-", 95))
	for _, b := range books {
		fmt.Printf("%-5d %-35s %-25s %-6d %-20s\n",
			b.ID,
			truncateString(b.Title, 35),
			truncateString(b.Author, 25),
			b.PublishedYear,
			truncateString(b.CategoryName, 20))
	}
	printSourceNote(src)
}

func printStudents(students []library.Student, src library.Source) {
	if len(students) == 0 {
		fmt.Println("No students found.")
		printSourceNote(src)
		return
	}
	fmt.Printf("%-5s %-30s %-30s %-5s\n", "ID", "Name", "Course", "Year")
	fmt.Println(strings.Repeat("-", 73))
	for _, s := range students {
		fmt.Printf("%-5d %-30s %-30s %-5d\n",
			s.ID,
			truncateString(s.FullName(), 30),
			truncateString(s.Course, 30),
			s.YearLevel)
	}
	printSourceNote(src)
}

func printBorrowRecords(records []library.BorrowRecord, src library.Source) {
	if len(records) == 0 {
		fmt.Println("No transactions found.")
		printSourceNote(src)
		return
	}
	fmt.Printf("%-5s %-20s %-30s %-15s %-12s %-12s\n", "ID", "Student", "Book", "Staff", "Borrowed", "Returned")
	fmt.Println(strings.Repeat("-", 99))
	for _, r := range records {
		returned := "Active"
		if r.Returned() {
			returned = *r.ReturnDate
		}
		fmt.Printf("%-5d %-20s %-30s %-15s %-12s %-12s\n",
			r.ID,
			truncateString(r.StudentName, 20),
			truncateString(r.BookTitle, 30),
			truncateString(r.StaffName, 15),
			r.BorrowDate,
			returned)
	}
	printSourceNote(src)
}

func printPositions(positions []library.Position) {
	if len(positions) == 0 {
		fmt.Println("No positions found.")
		return
	}
	fmt.Printf("%-5s %-15s %-40s\n", "ID", "Code", "Name")
	fmt.Println(strings.Repeat("-", 62))
	for _, p := range positions {
		fmt.Printf("%-5d %-15s %-40s\n", p.ID, truncateString(p.Code, 15), truncateString(p.Name, 40))
	}
}

func truncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
