// Accumulates the output of a run: one record per completed patient plus
// composition counters and the counted (post-warm-up) metric series.

package sim

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// PatientRecord is the immutable archive of one completed patient.
type PatientRecord struct {
	PID         int64
	Priority    PriorityClass
	TestType    TestType
	ArrivalTime float64
	FinishTime  float64

	WaitReg     float64
	WaitSample  float64
	WaitMachine float64
	WaitVerify  float64

	ServiceReg     float64
	ServiceSample  float64
	ServiceMachine float64
	ServiceVerify  float64

	SystemTime float64
}

// CompositionCounts tallies arrivals by class and test type. Counters are
// incremented at arrival time, so they include patients later truncated at
// the horizon.
type CompositionCounts struct {
	Expedited int
	Normal    int
	Fast      int
	Slow      int
}

// CountedMetrics holds the metric series restricted to patients whose
// arrival time is at or past the warm-up threshold. Reported averages are
// computed over these, never over the full log, to remove empty-system bias.
type CountedMetrics struct {
	WaitReg     []float64
	WaitSample  []float64
	WaitMachine []float64
	WaitVerify  []float64
	SystemTime  []float64
}

// EventLog is the append-only output of a run. Patients that do not reach
// completion before the horizon never appear here; callers must treat the
// log as containing only fully completed patients.
type EventLog struct {
	Patients []PatientRecord
	Counted  CountedMetrics
	Counts   CompositionCounts
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{Patients: make([]PatientRecord, 0)}
}

// appendCompleted archives a finished patient. A record is always appended
// to the full log; the counted series only receive it when the patient
// arrived at or after the warm-up threshold. WaitVerify is counted only when
// the verification stage exists, matching the reported verification mean.
func (log *EventLog) appendCompleted(p *Patient, warmUp float64, verifyEnabled bool) {
	log.Patients = append(log.Patients, PatientRecord{
		PID:            p.PID,
		Priority:       p.Priority,
		TestType:       p.TestType,
		ArrivalTime:    p.ArrivalTime,
		FinishTime:     p.FinishTime,
		WaitReg:        p.WaitReg,
		WaitSample:     p.WaitSample,
		WaitMachine:    p.WaitMachine,
		WaitVerify:     p.WaitVerify,
		ServiceReg:     p.ServiceReg,
		ServiceSample:  p.ServiceSample,
		ServiceMachine: p.ServiceMachine,
		ServiceVerify:  p.ServiceVerify,
		SystemTime:     p.SystemTime,
	})

	if p.ArrivalTime < warmUp {
		return
	}
	log.Counted.WaitReg = append(log.Counted.WaitReg, p.WaitReg)
	log.Counted.WaitSample = append(log.Counted.WaitSample, p.WaitSample)
	log.Counted.WaitMachine = append(log.Counted.WaitMachine, p.WaitMachine)
	if verifyEnabled {
		log.Counted.WaitVerify = append(log.Counted.WaitVerify, p.WaitVerify)
	}
	log.Counted.SystemTime = append(log.Counted.SystemTime, p.SystemTime)
}

// SaveSystemTimes writes the counted system-time series to a file as a
// comma-separated list, for offline plotting.
func (log *EventLog) SaveSystemTimes(fileName string) {
	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0777)
	if err != nil {
		logrus.Fatalf("Error creating file %s: %v\n", fileName, err)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logrus.Fatalf("Error closing file %s: %v\n", fileName, closeErr)
		}
	}()

	writer := bufio.NewWriter(file)

	defer func() {
		if flushErr := writer.Flush(); flushErr != nil {
			logrus.Fatalf("Error flushing writer for file %s: %v\n", fileName, flushErr)
		}
	}()

	for _, v := range log.Counted.SystemTime {
		_, writeErr := fmt.Fprintf(writer, "%.4f, ", v)
		if writeErr != nil {
			logrus.Fatalf("Error writing value %f to file: %v\n", v, writeErr)
			return // Stop writing on first error
		}
	}

	logrus.Debugf("Successfully wrote to '%s'\n", fileName)
}
