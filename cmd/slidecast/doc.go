// Command slidecast builds narrated videos from slide decks. Each visible
// slide becomes a still-image clip voiced from its speaker notes; the clips
// are concatenated into one video next to the deck. Reruns reuse everything
// whose inputs have not changed.
package main
