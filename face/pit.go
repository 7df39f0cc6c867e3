/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package face

import (
	"time"

	"github.com/named-data/ndn-verifier/ndn"
)

// pitNode represents a node in the pending Interest name tree.
type pitNode struct {
	component ndn.NameComponent
	depth     int

	parent   *pitNode
	children []*pitNode

	entries []*pitEntry
}

// pitEntry aggregates the expressed Interests sharing a name and selectors.
type pitEntry struct {
	node *pitNode

	name        ndn.Name
	canBePrefix bool
	mustBeFresh bool
	records     []*pitRecord
}

// pitRecord is a single ExpressInterest call awaiting Data or timeout.
type pitRecord struct {
	entry     *pitEntry
	onData    OnData
	onTimeout OnTimeout
	ctx       interface{}
	timer     *time.Timer
}

// newPit creates a new pending Interest table.
func newPit() *pitNode {
	return new(pitNode)
}

func (p *pitNode) findLongestPrefixEntry(name ndn.Name) *pitNode {
	if len(name) > p.depth {
		for _, child := range p.children {
			if name[child.depth-1].Equals(child.component) {
				return child.findLongestPrefixEntry(name)
			}
		}
	}
	return p
}

func (p *pitNode) fillTreeToPrefix(name ndn.Name) *pitNode {
	curNode := p.findLongestPrefixEntry(name)
	for depth := curNode.depth + 1; depth <= len(name); depth++ {
		newNode := new(pitNode)
		newNode.component = ndn.NameComponent{Typ: name[depth-1].Typ, Val: append([]byte(nil), name[depth-1].Val...)}
		newNode.depth = depth
		newNode.parent = curNode
		curNode.children = append(curNode.children, newNode)
		curNode = newNode
	}
	return curNode
}

// insert records an expressed Interest, aggregating it with an entry of the same name and selectors.
func (p *pitNode) insert(interest *ndn.Interest, record *pitRecord) {
	node := p.fillTreeToPrefix(interest.Name())

	var entry *pitEntry
	for _, curEntry := range node.entries {
		if curEntry.canBePrefix == interest.CanBePrefix() && curEntry.mustBeFresh == interest.MustBeFresh() {
			entry = curEntry
			break
		}
	}

	if entry == nil {
		entry = new(pitEntry)
		entry.node = node
		entry.name = interest.Name()
		entry.canBePrefix = interest.CanBePrefix()
		entry.mustBeFresh = interest.MustBeFresh()
		node.entries = append(node.entries, entry)
	}

	record.entry = entry
	entry.records = append(entry.records, record)
}

// findFromData finds the entries matching a Data packet. Note that this does not consider the effect of MustBeFresh.
func (p *pitNode) findFromData(name ndn.Name) []*pitEntry {
	matching := make([]*pitEntry, 0)
	for curNode := p.findLongestPrefixEntry(name); curNode != nil; curNode = curNode.parent {
		for _, entry := range curNode.entries {
			if entry.canBePrefix || curNode.depth == len(name) {
				matching = append(matching, entry)
			}
		}
	}
	return matching
}

// removeRecord removes a record, returning false if it was already removed.
func (p *pitNode) removeRecord(record *pitRecord) bool {
	entry := record.entry
	if entry == nil {
		return false
	}
	for i, curRecord := range entry.records {
		if curRecord == record {
			entry.records = append(entry.records[:i], entry.records[i+1:]...)
			record.entry = nil
			if len(entry.records) == 0 {
				entry.node.removeEntry(entry)
			}
			return true
		}
	}
	return false
}

// removeEntry removes an entry with all its records and returns them.
func (p *pitNode) removeEntry(entry *pitEntry) []*pitRecord {
	for i, curEntry := range p.entries {
		if curEntry == entry {
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			break
		}
	}
	records := entry.records
	entry.records = nil
	for _, record := range records {
		record.entry = nil
	}
	p.prune()
	return records
}

// prune removes empty nodes up to the root.
func (p *pitNode) prune() {
	for node := p; node.parent != nil && len(node.entries) == 0 && len(node.children) == 0; node = node.parent {
		siblings := node.parent.children
		for i, child := range siblings {
			if child == node {
				node.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
}

// size returns the number of pending records.
func (p *pitNode) size() int {
	n := 0
	for _, entry := range p.entries {
		n += len(entry.records)
	}
	for _, child := range p.children {
		n += child.size()
	}
	return n
}

// drain removes every record from the table.
func (p *pitNode) drain() []*pitRecord {
	var records []*pitRecord
	for _, entry := range p.entries {
		for _, record := range entry.records {
			record.entry = nil
		}
		records = append(records, entry.records...)
	}
	for _, child := range p.children {
		records = append(records, child.drain()...)
	}
	p.entries = nil
	p.children = nil
	return records
}
