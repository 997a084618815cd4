package feed

//default retention
const (
	DefRecentLimit     = 50 //flashblocks kept for display
	DefReceiptBlockAge = 20 //blocks a receipt location is remembered for
)

type EventKind int

const (
	EventFlashblock EventKind = iota //a new flashblock record arrived
	EventBlock                       //the highest completed block changed
)

func (k EventKind) String() string {
	switch k {
	case EventFlashblock:
		return "flashblock"
	case EventBlock:
		return "block"
	}
	return "unknown"
}

//Event is a tick notification derived from the stream
type Event struct {
	Kind         EventKind
	BlockNumber  uint64
	Index        int      //flashblock index, zero for block events
	Transactions []string //transactions with a receipt in the flashblock, nil for block events
}

//Location is where a transaction receipt first appeared
type Location struct {
	BlockNumber uint64
	Index       int
	Pending     bool //the block is still being built, the receipt lives in a flashblock only
}

//Tracker turns flashblock records into tick events
//it keeps the most recent records and the receipt locations of the last blocks
//Tracker is not safe for concurrent use
type Tracker struct {
	recentLimit int
	receiptAge  uint64

	recent         []*Flashblock
	receipts       map[string]Location
	currentBlock   uint64
	completedBlock uint64
	latestTx       string
}

func NewTracker() *Tracker {
	return &Tracker{
		recentLimit: DefRecentLimit,
		receiptAge:  DefReceiptBlockAge,
		receipts:    map[string]Location{},
	}
}

//Observe records fb and returns the events it produces:
//always one flashblock event, preceded by a block event when fb starts a new block
func (t *Tracker) Observe(fb *Flashblock) []Event {
	events := make([]Event, 0, 2)
	block := fb.Metadata.BlockNumber

	if block > t.currentBlock {
		if t.currentBlock > 0 && t.currentBlock > t.completedBlock {
			t.completedBlock = t.currentBlock
			events = append(events, Event{Kind: EventBlock, BlockNumber: t.completedBlock})
		}
		t.currentBlock = block
		t.prune()
	}

	ids := fb.ReceiptIDs()
	for _, id := range ids {
		if _, ok := t.receipts[id]; !ok {
			t.receipts[id] = Location{BlockNumber: block, Index: fb.Index}
		}
	}
	if n := len(fb.Diff.Transactions); n > 0 {
		t.latestTx = fb.Diff.Transactions[n-1]
	}

	t.recent = append([]*Flashblock{fb}, t.recent...)
	if len(t.recent) > t.recentLimit {
		t.recent = t.recent[:t.recentLimit]
	}

	events = append(events, Event{Kind: EventFlashblock, BlockNumber: block, Index: fb.Index, Transactions: ids})
	return events
}

//Locate returns where the receipt of hash appeared
func (t *Tracker) Locate(hash string) (Location, bool) {
	loc, ok := t.receipts[hash]
	if !ok {
		return Location{}, false
	}
	loc.Pending = loc.BlockNumber == t.currentBlock
	return loc, true
}

//Recent returns the retained records, newest first
func (t *Tracker) Recent() []*Flashblock {
	return append([]*Flashblock(nil), t.recent...)
}

//CurrentBlock is the highest block number seen so far
func (t *Tracker) CurrentBlock() uint64 { return t.currentBlock }

//CompletedBlock is the highest block known to be complete
func (t *Tracker) CompletedBlock() uint64 { return t.completedBlock }

//LatestTransaction returns the last transaction of the newest record carrying any
func (t *Tracker) LatestTransaction() (string, bool) {
	return t.latestTx, t.latestTx != ""
}

//prune drops receipt locations older than receiptAge blocks
func (t *Tracker) prune() {
	if t.currentBlock <= t.receiptAge {
		return
	}
	minBlock := t.currentBlock - t.receiptAge
	for hash, loc := range t.receipts {
		if loc.BlockNumber < minBlock {
			delete(t.receipts, hash)
		}
	}
}
