// Package models defines the core domain models for receiptsplit.
//
// # Records
//
// The following models are persisted by the record store:
//   - Person: A participant who can be assigned receipt items
//   - ReceiptGroup: A named, dated batch of items from one upload or manual entry
//   - Item: A single priced line on a receipt
//   - SplitAssignment: Who owes for a given item (exactly one per item)
//
// # Extraction
//
// RawExtraction is the transient shape returned by the vision model. It is
// sanitized before it becomes a ReceiptGroup and is never stored as-is.
//
// # Design Principles
//
// 1. **IDs, not pointers**: Relationships use ID strings (SplitAssignment.ItemID,
// SplitAssignment.PersonIDs, ReceiptGroup.PayerID)
// 2. **Prices are line totals**: Item.Price already includes quantity
// 3. **Order matters**: People and assignment person lists keep insertion order,
// which decides who receives leftover cents
package models
