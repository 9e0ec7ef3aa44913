package engine

import (
	"container/heap"
	"math"

	coreerrors "github.com/edirent/helix/internal/obs/errors"
)

// SchedulerConfig carries the run-level knobs the Scheduler itself needs
// beyond what each sub-component already owns.
type SchedulerConfig struct {
	Symbol           string
	TickSize         float64
	AdverseHorizonMs int64
	StrictDrain      bool
	LatencyCfg       LatencyConfig
}

// EventSink receives diagnostic events the Scheduler emits on its critical
// path — it must never block or fail the run.
type EventSink interface {
	Record(kind string, payload map[string]interface{})
}

type noopSink struct{}

func (noopSink) Record(string, map[string]interface{}) {}

// Scheduler is the single-threaded main loop driving the core. It owns
// every other component by value reference for the run's duration.
type Scheduler struct {
	cfg SchedulerConfig

	book     *Reconstructor
	tape     *TapeAligner
	rules    *RulesEngine
	matching *MatchingEngine
	maker    *MakerSim
	om       *OrderManager
	risk     *RiskEngine
	fees     *FeeModel
	acct     *Accounting
	policy   Policy
	sink     EventSink

	pending        pendingHeap
	terminalOrCancelled map[int64]bool
	advQueue       []AdverseSelectionSample

	rows []*FillRow

	submitSeq int64
	actionIdx uint64
}

// NewScheduler wires every engine component into a single run. Pass a nil
// sink to use a no-op (the default for tests).
func NewScheduler(
	cfg SchedulerConfig,
	book *Reconstructor,
	tape *TapeAligner,
	rules *RulesEngine,
	matching *MatchingEngine,
	maker *MakerSim,
	om *OrderManager,
	risk *RiskEngine,
	fees *FeeModel,
	acct *Accounting,
	policy Policy,
	sink EventSink,
) *Scheduler {
	if sink == nil {
		sink = noopSink{}
	}
	return &Scheduler{
		cfg: cfg, book: book, tape: tape, rules: rules, matching: matching,
		maker: maker, om: om, risk: risk, fees: fees, acct: acct, policy: policy, sink: sink,
		terminalOrCancelled: make(map[int64]bool),
	}
}

// Rows returns every emitted fills.csv row, in emission order.
func (s *Scheduler) Rows() []*FillRow { return s.rows }

// Run drives the core across the given ordered BookDelta stream to
// completion, including the end-of-feed drain, and returns the final
// Summary. A fatal condition anywhere aborts the run and returns its error.
func (s *Scheduler) Run(deltas []BookDelta) (Summary, error) {
	for _, d := range deltas {
		if err := s.tick(d); err != nil {
			return Summary{}, err
		}
	}

	if err := s.endOfFeedDrain(); err != nil {
		return Summary{}, err
	}

	finalBook := s.book.CurrentBook()
	return s.acct.Finalize(s.risk.Position(), finalBook.Mid()), nil
}

func (s *Scheduler) tick(delta BookDelta) error {
	if _, err := s.book.Advance(delta); err != nil {
		return err
	}
	s.sink.Record("book_advance", map[string]interface{}{"seq": delta.Seq, "ts_ms": delta.TsMs})

	book := s.book.CurrentBook()

	if err := s.resolveAdverseSelection(book); err != nil {
		return err
	}

	s.expireOrders(book.TsMs)

	trades := s.tape.DrainUpTo(book.TsMs)
	for _, t := range trades {
		s.acct.AddTradeSkewSample(float64(book.TsMs - t.TsMs))
	}

	if err := s.processMakerFills(book, trades); err != nil {
		return err
	}

	if err := s.drainDuePending(book, false); err != nil {
		return err
	}

	return s.runPolicy(book)
}

func (s *Scheduler) resolveAdverseSelection(book Book) error {
	for len(s.advQueue) > 0 && s.advQueue[0].TargetTs <= book.TsMs {
		sample := s.advQueue[0]
		s.advQueue = s.advQueue[1:]

		mid := book.Mid()
		if mid <= 0 || s.cfg.TickSize <= 0 {
			continue
		}
		advTicks := (mid - sample.MidAtFill) * sample.Side.Sign() / s.cfg.TickSize

		row := s.rows[sample.FillRowIndex]
		row.AdvSelectionTicks = advTicks
		row.advResolved = true
		s.acct.AddAdverseSelectionSample(advTicks)
	}
	return nil
}

func (s *Scheduler) expireOrders(nowTs int64) {
	for _, id := range s.om.ExpireOrders(nowTs) {
		s.maker.Cancel(id)
		s.terminalOrCancelled[id] = true
	}
}

func (s *Scheduler) processMakerFills(book Book, trades []TradePrint) error {
	fills := s.maker.OnBook(book, book.TsMs, trades)
	makerParams := s.maker.params

	for _, fill := range fills {
		order, ok := s.om.Get(fill.OrderID)
		if !ok {
			continue // order id unknown to the Order Manager
		}

		queueTimeMs := float64(book.TsMs - order.CreatedTs)
		s.acct.AddMakerQueueTimeSample(queueTimeMs)

		if err := s.om.ApplyFill(fill, book.TsMs); err != nil {
			return err
		}

		fee := s.fees.Compute(fill)
		prevPos := s.risk.Position()
		s.risk.Update(fill)
		newPos := s.risk.Position()
		accRow := s.acct.RecordFill(fill, fee, prevPos, newPos, book.Mid(), book.TsMs)

		row := s.buildRow(fill, book, accRow, fee)
		row.Src = "maker_sim"
		row.AdvTicks = makerParams.AdvTicks
		row.QueueTimeMs = queueTimeMs
		s.appendRow(row, book)
	}
	return nil
}

func (s *Scheduler) drainDuePending(book Book, endOfFeed bool) error {
	for s.pending.Len() > 0 && s.pending[0].FillTs <= book.TsMs {
		pa := heap.Pop(&s.pending).(*PendingAction)

		if s.terminalOrCancelled[pa.OrderID] {
			continue
		}
		order, ok := s.om.Get(pa.OrderID)
		if !ok || order.Status.IsTerminal() {
			continue
		}

		place := pa.Action.Place
		fill := s.matching.Simulate(*place, book)
		fill.OrderID = pa.OrderID

		if fill.Status == FillFilled {
			filledNotional := fill.VWAPPrice * fill.FilledQty
			if pa.TargetNotional > 0 && filledNotional > pa.TargetNotional*1.001 {
				return coreerrors.New(coreerrors.SeverityFatal, coreerrors.CategoryAccounting,
					coreerrors.Detail{Component: "scheduler", OrderID: pa.OrderID,
						Extra: map[string]interface{}{"filled_notional": filledNotional, "target_notional": pa.TargetNotional}},
					"filled_notional exceeds target by more than 0.1%")
			}

			if err := s.om.ApplyFill(fill, book.TsMs); err != nil {
				return err
			}

			fee := s.fees.Compute(fill)
			prevPos := s.risk.Position()
			s.risk.Update(fill)
			newPos := s.risk.Position()
			accRow := s.acct.RecordFill(fill, fee, prevPos, newPos, book.Mid(), book.TsMs)

			row := s.buildRow(fill, book, accRow, fee)
			row.Src = "pending_taker"
			row.Crossing = pa.Crossing
			row.TargetNotional = pa.TargetNotional
			row.FilledNotional = filledNotional
			s.appendRow(row, book)
		} else {
			s.om.MarkRejected(pa.OrderID, book.TsMs)
			s.acct.RecordReject(fill.RejectReason)
			row := s.buildRejectRow(fill, book, pa.OrderID)
			row.Src = "pending_taker"
			row.TargetNotional = pa.TargetNotional
			s.appendRow(row, book)
		}
	}
	return nil
}

func (s *Scheduler) runPolicy(book Book) error {
	action, ok := s.policy.NextAction(PolicyContext{
		Book: book, Position: s.risk.Position(), NowTs: book.TsMs,
	})
	if !ok {
		return nil
	}

	switch action.Kind {
	case ActionCancel:
		s.om.Cancel(action.Cancel.TargetOrderID, book.TsMs)
		s.maker.Cancel(action.Cancel.TargetOrderID)
		s.terminalOrCancelled[action.Cancel.TargetOrderID] = true
		return nil

	case ActionReplace:
		s.maker.Cancel(action.Replace.TargetOrderID)
		s.terminalOrCancelled[action.Replace.TargetOrderID] = true
		result := s.om.Replace(action.Replace.TargetOrderID, action.Replace.NewPrice, action.Replace.NewQty, book.TsMs, 0)
		if !result.Success {
			return nil
		}
		return s.routePlace(*result.NewOrder, book)

	case ActionPlace:
		return s.placeAndRoute(*action.Place, book)
	}
	return nil
}

func (s *Scheduler) placeAndRoute(p PlaceOrder, book Book) error {
	normalized, reason := s.rules.Normalize(p, book)
	if reason != RejectNone {
		s.acct.RecordReject(reason)
		s.appendRow(s.buildRejectRowNoOrder(p.Side, reason, book), book)
		return nil
	}

	lastPrice := normalized.LimitPrice
	if lastPrice <= 0 {
		lastPrice = book.Mid()
	}
	if !s.risk.Validate(normalized, lastPrice) {
		s.acct.RecordReject(RejectRiskLimit)
		s.appendRow(s.buildRejectRowNoOrder(p.Side, RejectRiskLimit, book), book)
		return nil
	}

	crossing := isCrossing(normalized, book)
	if crossing {
		normalized.IsMaker = false
	}

	expireTs := int64(0)
	if normalized.IsMaker {
		expireTs = book.TsMs + s.maker.params.ExpireMs
	}
	order := s.om.Place(normalized, book.TsMs, expireTs)

	return s.routeOrderInto(order, normalized, crossing, book)
}

func (s *Scheduler) routePlace(order Order, book Book) error {
	p := PlaceOrder{Side: order.Side, Type: order.Type, Size: order.Remaining(), LimitPrice: order.Price}
	crossing := isCrossing(p, book)
	return s.routeOrderInto(&order, p, crossing, book)
}

func (s *Scheduler) routeOrderInto(order *Order, p PlaceOrder, crossing bool, book Book) error {
	if p.Type == Market || crossing || !p.IsMaker {
		s.enqueuePending(order.ID, p, crossing, book)
		return nil
	}

	s.maker.Submit(order.ID, p.Side, p.LimitPrice, p.Size, book, book.TsMs)
	s.acct.RecordMakerOrderSubmitted()
	return nil
}

func (s *Scheduler) enqueuePending(orderID int64, p PlaceOrder, crossing bool, book Book) {
	latencyMs := DeterministicLatencyMs(s.cfg.Symbol, uint64(book.Seq), s.actionIdx, s.cfg.LatencyCfg)
	s.actionIdx++
	s.acct.AddLatencySample(latencyMs)

	s.submitSeq++
	heap.Push(&s.pending, &PendingAction{
		Action:         NewPlaceAction(p),
		FillTs:         book.TsMs + int64(math.Round(latencyMs)),
		SubmitSeq:      s.submitSeq,
		OrderID:        orderID,
		Crossing:       crossing,
		TargetNotional: p.TargetNotional,
	})
}

// isCrossing reports whether a limit Action's price would immediately
// match the opposing best, forcing Taker routing instead of resting.
func isCrossing(p PlaceOrder, book Book) bool {
	if p.Type != Limit || p.LimitPrice <= 0 {
		return false
	}
	switch p.Side {
	case Buy:
		return book.BestAsk > 0 && p.LimitPrice >= book.BestAsk
	case Sell:
		return book.BestBid > 0 && p.LimitPrice <= book.BestBid
	default:
		return false
	}
}

func (s *Scheduler) endOfFeedDrain() error {
	book := s.book.CurrentBook()
	if err := s.drainDuePending(Book{TsMs: math.MaxInt64, BestBid: book.BestBid, BestAsk: book.BestAsk,
		BidSize: book.BidSize, AskSize: book.AskSize, Bids: book.Bids, Asks: book.Asks, Seq: book.Seq}, true); err != nil {
		return err
	}

	if len(s.advQueue) > 0 {
		if s.cfg.StrictDrain {
			return coreerrors.New(coreerrors.SeverityFatal, coreerrors.CategoryAccounting,
				coreerrors.Detail{Component: "scheduler", Extra: map[string]interface{}{"pending_adv_samples": len(s.advQueue)}},
				"unresolved adverse-selection samples at shutdown")
		}
		s.sink.Record("adv_selection_drain_warning", map[string]interface{}{"count": len(s.advQueue)})
	}
	return nil
}

func (s *Scheduler) buildRow(fill Fill, book Book, acc FillAccountingRow, fee FeeResult) *FillRow {
	best, _ := book.TopOfBook(fill.Side.Opposite())
	return &FillRow{
		OrderID:              fill.OrderID,
		TsMs:                 book.TsMs,
		Seq:                  book.Seq,
		Status:               fill.Status,
		Side:                 fill.Side,
		Liquidity:            fill.Liquidity,
		Reason:               fill.RejectReason,
		VWAP:                 fill.VWAPPrice,
		FilledQty:            fill.FilledQty,
		UnfilledQty:          fill.UnfilledQty,
		Fee:                  fee.Fee,
		FeeBps:               fee.EffectiveBps,
		Gross:                acc.GrossDelta,
		Net:                  acc.NetDelta,
		ExecCostTicksSigned:  acc.ExecCostTicksSigned,
		Mid:                  book.Mid(),
		Best:                 best,
		SpreadPaidTicks:      acc.SpreadPaidTicks,
		SlipTicks:            fill.SlippageTicks,
		LevelsCrossed:        fill.LevelsCrossed,
	}
}

func (s *Scheduler) buildRejectRow(fill Fill, book Book, orderID int64) *FillRow {
	return &FillRow{
		OrderID: orderID,
		TsMs:    book.TsMs,
		Seq:     book.Seq,
		Status:  FillRejected,
		Side:    fill.Side,
		Reason:  fill.RejectReason,
		Mid:     book.Mid(),
	}
}

func (s *Scheduler) buildRejectRowNoOrder(side Side, reason RejectReason, book Book) *FillRow {
	return &FillRow{
		TsMs:   book.TsMs,
		Seq:    book.Seq,
		Status: FillRejected,
		Side:   side,
		Reason: reason,
		Mid:    book.Mid(),
	}
}

func (s *Scheduler) appendRow(row *FillRow, book Book) {
	if row.TargetNotional > 0 {
		s.acct.AddFilledToTargetSample(row.FilledNotional / row.TargetNotional)
	}

	if row.Status == FillFilled && row.Liquidity == Maker {
		idx := len(s.rows)
		s.rows = append(s.rows, row)
		s.advQueue = append(s.advQueue, AdverseSelectionSample{
			MidAtFill:    book.Mid(),
			Side:         row.Side,
			FillRowIndex: idx,
			TargetTs:     book.TsMs + s.cfg.AdverseHorizonMs,
		})
		return
	}

	s.rows = append(s.rows, row)
}
