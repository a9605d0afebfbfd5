package chain

import (
	"time"

	"solanaSniper/internal/model"
)

func buildTransactionRecord(signature string, res *transactionResult, fetchedAt time.Time) model.TransactionRecord {
	rec := model.TransactionRecord{
		Signature: signature,
		Slot:      *res.Slot,
		BlockTime: res.BlockTime,
		Transaction: model.TransactionBody{
			Signatures: res.Transaction.Signatures,
			Message: model.TransactionMessage{
				AccountKeys:     make([]model.AccountKey, 0, len(res.Transaction.Message.AccountKeys)),
				Instructions:    res.Transaction.Message.Instructions,
				RecentBlockhash: res.Transaction.Message.RecentBlockhash,
			},
		},
		FetchedAt: fetchedAt.UTC().Format(time.RFC3339Nano),
	}

	for _, key := range res.Transaction.Message.AccountKeys {
		rec.Transaction.Message.AccountKeys = append(rec.Transaction.Message.AccountKeys, model.AccountKey{
			Pubkey:   key.Pubkey,
			Signer:   key.Signer,
			Writable: key.Writable,
			Source:   key.Source,
		})
	}

	if meta := res.Meta; meta != nil {
		rec.Meta = model.TransactionMeta{
			Err:               meta.Err,
			Status:            meta.Status,
			Fee:               meta.Fee,
			PreBalances:       meta.PreBalances,
			PostBalances:      meta.PostBalances,
			PreTokenBalances:  convertTokenBalances(meta.PreTokenBalances),
			PostTokenBalances: convertTokenBalances(meta.PostTokenBalances),
			Rewards:           meta.Rewards,
			LogMessages:       meta.LogMessages,
		}
		for _, inner := range meta.InnerInstructions {
			rec.Meta.InnerInstructions = append(rec.Meta.InnerInstructions, model.InnerInstruction{
				Index:        inner.Index,
				Instructions: inner.Instructions,
			})
		}
	}

	return rec
}

func convertTokenBalances(in []tokenBalance) []model.TokenBalance {
	if in == nil {
		return nil
	}
	out := make([]model.TokenBalance, 0, len(in))
	for _, b := range in {
		out = append(out, model.TokenBalance{
			AccountIndex:   b.AccountIndex,
			Mint:           b.Mint,
			Owner:          b.Owner,
			ProgramID:      b.ProgramID,
			Amount:         b.UITokenAmount.Amount,
			Decimals:       b.UITokenAmount.Decimals,
			UIAmount:       b.UITokenAmount.UIAmount,
			UIAmountString: b.UITokenAmount.UIAmountString,
		})
	}
	return out
}
