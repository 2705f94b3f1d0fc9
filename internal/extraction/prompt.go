package extraction

const commonInstructions = `
Extract the following information in JSON format:
1. Items (name, price, quantity). Strictly numbers for price.
2. Other charges (name and amount) such as handling charges, platform fees, taxes,
   delivery charges and packaging charges.
3. Total amount.
4. Currency (default INR).

MATHEMATICAL CONSISTENCY AND ROUNDING
The extracted numbers must be mathematically consistent.

1. Sum = (sum of item price * quantity) + (sum of other charges).
2. Compare the sum with the printed total.
3. A "Round Off" or "Rounding" line is the balancing value. Ensure that
   (sum of item price * quantity) + (sum of other charges) + (round off) = total.
   If the numbers do not add up, choose the sign of the round off line that makes
   the equation true. Example: sum 100.05 and total 100.00 means round off -0.05.
4. Any line labelled "Discount" or "Savings", or printed in parentheses, is
   negative. Extract it as a negative number.

Return ONLY raw JSON with no markdown formatting, shaped as:
{
  "items": [
    { "name": "string", "price": number, "quantity": number }
  ],
  "other_charges": [
    { "name": "string", "amount": number }
  ],
  "total": number,
  "currency": "string"
}
`

const imagePrompt = `
Analyze this receipt image. Use OCR to extract text and identify values.
` + commonInstructions

const pdfPrompt = `
Analyze this PDF voucher. It is a digital document with structured data, usually
columns for item name, quantity, rate and amount.
- Rely on the column structure to identify line items and prices.
- Do not confuse unit price with line total; extract the line total when present,
  otherwise price * quantity.
- Use "Grand Total" or "Net Payable" as the total amount.
` + commonInstructions

func promptFor(doc Document) string {
	if doc.IsPDF() {
		return pdfPrompt
	}
	return imagePrompt
}
