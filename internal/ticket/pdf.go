package ticket

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// RenderPDF lays the e-ticket out on a single A4 page.
func RenderPDF(v View) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, "Electronic Ticket")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Booking reference: %s", v.BookingReference))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Issued: %s", v.IssueDate.Format("2 Jan 2006 15:04")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("%s %s", v.FlightInfo.Airline, v.FlightInfo.FlightNumber))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("%s - %s", v.FlightInfo.Origin, v.FlightInfo.Destination))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Departure: %s %s", v.FlightInfo.DepartureDate, v.FlightInfo.DepartureTime))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Arrival: %s", v.FlightInfo.ArrivalTime))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Cabin: %s", v.FlightInfo.CabinClass))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(110, 8, "Passenger")
	pdf.Cell(0, 8, "Seat")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, p := range v.Passengers {
		pdf.Cell(110, 7, p.Name)
		pdf.Cell(0, 7, p.Seat)
		pdf.Ln(7)
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, v.Terms)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render e-ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}
